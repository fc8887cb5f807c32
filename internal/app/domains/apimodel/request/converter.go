package request

import (
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/modules/mdvalidate"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/services/svlifecycle"
)

// ToSubmitInput 将 Request DTO 转换为提交链路输入
func (r *SubmitRequest) ToSubmitInput() *svlifecycle.SubmitInput {
	items := make([]mdvalidate.RawItem, 0, len(r.Items))
	for _, dto := range r.Items {
		if dto == nil {
			items = append(items, mdvalidate.RawItem{})
			continue
		}
		items = append(items, mdvalidate.RawItem{
			ItemCode:    dto.ItemCode,
			Description: dto.Description,
			Quantity:    dto.Quantity,
			UnitPrice:   dto.UnitPrice,
			UOM:         dto.UOM,
			Urgency:     dto.Urgency,
		})
	}
	return &svlifecycle.SubmitInput{
		SupplierName: r.SupplierName,
		Items:        items,
	}
}

// ToDecision 将决策字符串转换为封闭枚举
func (r *DecisionRequest) ToDecision() svlifecycle.Decision {
	return svlifecycle.Decision(r.Decision)
}
