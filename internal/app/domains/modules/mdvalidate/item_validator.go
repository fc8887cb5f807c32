package mdvalidate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/errorx"
)

// RawItem 未校验的行项目（文档抽取或人工输入的原始载荷）
// quantity/unit_price 来源不可信，可能是数字也可能是字符串
type RawItem struct {
	ItemCode    string      `json:"item_code"`
	Description string      `json:"description"`
	Quantity    interface{} `json:"quantity"`
	UnitPrice   interface{} `json:"unit_price"`
	UOM         string      `json:"uom"`
	Urgency     string      `json:"urgency"`
}

// ValidationResult 校验结果（纯内存，不落库）
type ValidationResult struct {
	Valid  bool
	Errors []errorx.ErrorDetail
}

// ErrorStrings 错误文本列表（用于 decision_notes）
func (r *ValidationResult) ErrorStrings() []string {
	out := make([]string, 0, len(r.Errors))
	for _, d := range r.Errors {
		out = append(out, fmt.Sprintf("%s: %s", d.Path, d.Info))
	}
	return out
}

// AsError 转换为 ValidationError（校验通过返回 nil）
func (r *ValidationResult) AsError() error {
	if r.Valid {
		return nil
	}
	return errorx.NewValidationError(r.Errors)
}

// ItemValidator 行项目校验器（规则引擎，纯函数，无副作用）
type ItemValidator struct{}

// NewItemValidator 创建行项目校验器实例
func NewItemValidator() *ItemValidator {
	return &ItemValidator{}
}

// Validate 逐项校验所有规则，收集全部违规（不提前返回）
func (v *ItemValidator) Validate(items []RawItem) *ValidationResult {
	result := &ValidationResult{}

	// 规则 0：行项目不能为空
	if len(items) == 0 {
		result.Errors = append(result.Errors, errorx.ErrorDetail{
			Path: "items",
			Info: "at least one item required",
		})
		return result
	}

	// 记录 item_code 首次出现的下标，用于重复检测
	seenCodes := make(map[string]int)

	for i, item := range items {
		path := func(field string) string {
			return fmt.Sprintf("items[%d].%s", i, field)
		}

		// 规则 1：item_code 必填且非空白
		code := strings.TrimSpace(item.ItemCode)
		if code == "" {
			result.Errors = append(result.Errors, errorx.ErrorDetail{
				Path: path("item_code"),
				Info: "item_code is required",
			})
		} else if first, dup := seenCodes[code]; dup {
			// 重复 code 报告两个下标
			result.Errors = append(result.Errors, errorx.ErrorDetail{
				Path: path("item_code"),
				Info: fmt.Sprintf("duplicate item_code %q at items[%d] and items[%d]", code, first, i),
			})
		} else {
			seenCodes[code] = i
		}

		// 规则 2：description 必填且非空白
		if strings.TrimSpace(item.Description) == "" {
			result.Errors = append(result.Errors, errorx.ErrorDetail{
				Path: path("description"),
				Info: "description is required",
			})
		}

		// 规则 3：quantity 必须是数字且 > 0
		if qty, ok := parseNumber(item.Quantity); !ok {
			result.Errors = append(result.Errors, errorx.ErrorDetail{
				Path: path("quantity"),
				Info: "quantity must be a number",
			})
		} else if qty <= 0 {
			result.Errors = append(result.Errors, errorx.ErrorDetail{
				Path: path("quantity"),
				Info: "quantity must be positive",
			})
		}

		// 规则 4：unit_price 必须是数字且 >= 0
		if price, ok := parseNumber(item.UnitPrice); !ok {
			result.Errors = append(result.Errors, errorx.ErrorDetail{
				Path: path("unit_price"),
				Info: "unit_price must be a number",
			})
		} else if price < 0 {
			result.Errors = append(result.Errors, errorx.ErrorDetail{
				Path: path("unit_price"),
				Info: "unit_price cannot be negative",
			})
		}

		// 规则 5：uom 只要求非空，不限定词表
		if strings.TrimSpace(item.UOM) == "" {
			result.Errors = append(result.Errors, errorx.ErrorDetail{
				Path: path("uom"),
				Info: "uom is required",
			})
		}

		// 规则 6：urgency 可选，给定时必须是合法枚举
		if _, ok := etrequest.ParseUrgency(item.Urgency); !ok {
			result.Errors = append(result.Errors, errorx.ErrorDetail{
				Path: path("urgency"),
				Info: "urgency must be one of: low, normal, high, critical",
			})
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// BuildLineItems 将原始行项目转换为领域对象
// 仅在 Validate 通过后调用；未给定的 urgency 默认 normal
func (v *ItemValidator) BuildLineItems(items []RawItem) []etrequest.LineItem {
	out := make([]etrequest.LineItem, 0, len(items))
	for _, item := range items {
		qty, _ := parseNumber(item.Quantity)
		price, _ := parseNumber(item.UnitPrice)
		urgency, _ := etrequest.ParseUrgency(item.Urgency)

		out = append(out, etrequest.LineItem{
			ItemCode:    strings.TrimSpace(item.ItemCode),
			Description: strings.TrimSpace(item.Description),
			Quantity:    qty,
			UnitPrice:   price,
			UOM:         strings.TrimSpace(item.UOM),
			Urgency:     urgency,
		})
	}
	return out
}

// parseNumber 宽容解析数字
// JSON 反序列化产生 float64/json.Number，人工输入可能是字符串
func parseNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
