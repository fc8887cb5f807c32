package mdvalidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"
)

func validItem() RawItem {
	return RawItem{
		ItemCode:    "SKU-1",
		Description: "hex bolts",
		Quantity:    5,
		UnitPrice:   2.5,
		UOM:         "box",
		Urgency:     "normal",
	}
}

func TestValidateEmptyItems(t *testing.T) {
	v := NewItemValidator()

	result := v.Validate(nil)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "items", result.Errors[0].Path)
	assert.Equal(t, "at least one item required", result.Errors[0].Info)
}

func TestValidatePass(t *testing.T) {
	v := NewItemValidator()

	result := v.Validate([]RawItem{validItem()})
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.NoError(t, result.AsError())
}

func TestValidateCollectsAllViolations(t *testing.T) {
	v := NewItemValidator()

	items := []RawItem{
		{}, // 全部字段缺失
		validItem(),
	}
	result := v.Validate(items)
	assert.False(t, result.Valid)

	// 第一个 item 违反全部必填规则
	paths := make([]string, 0, len(result.Errors))
	for _, d := range result.Errors {
		paths = append(paths, d.Path)
	}
	assert.Contains(t, paths, "items[0].item_code")
	assert.Contains(t, paths, "items[0].description")
	assert.Contains(t, paths, "items[0].quantity")
	assert.Contains(t, paths, "items[0].uom")
	assert.NotContains(t, paths, "items[1].item_code")
}

func TestValidateQuantityRules(t *testing.T) {
	v := NewItemValidator()

	item := validItem()
	item.Quantity = 0
	result := v.Validate([]RawItem{item})
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0].Info, "positive")

	item.Quantity = "not a number"
	result = v.Validate([]RawItem{item})
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0].Info, "must be a number")

	// 字符串形式的数字可接受
	item.Quantity = "3"
	result = v.Validate([]RawItem{item})
	assert.True(t, result.Valid)
}

func TestValidateUnitPriceRules(t *testing.T) {
	v := NewItemValidator()

	item := validItem()
	item.UnitPrice = -1.0
	result := v.Validate([]RawItem{item})
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0].Info, "negative")

	// 免费样品单价为 0 合法
	item.UnitPrice = 0
	result = v.Validate([]RawItem{item})
	assert.True(t, result.Valid)
}

func TestValidateDuplicateItemCode(t *testing.T) {
	v := NewItemValidator()

	a := validItem()
	b := validItem()
	b.Description = "another line"
	result := v.Validate([]RawItem{a, b})

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "items[1].item_code", result.Errors[0].Path)
	assert.Contains(t, result.Errors[0].Info, `duplicate item_code "SKU-1" at items[0] and items[1]`)
}

func TestValidateUrgencyEnum(t *testing.T) {
	v := NewItemValidator()

	item := validItem()
	item.Urgency = "asap"
	result := v.Validate([]RawItem{item})
	require.False(t, result.Valid)
	assert.Equal(t, "items[0].urgency", result.Errors[0].Path)

	// 空 urgency 合法，构建时默认 normal
	item.Urgency = ""
	result = v.Validate([]RawItem{item})
	assert.True(t, result.Valid)
}

func TestBuildLineItems(t *testing.T) {
	v := NewItemValidator()

	items := v.BuildLineItems([]RawItem{
		{ItemCode: " SKU-1 ", Description: " bolts ", Quantity: "2", UnitPrice: 3.5, UOM: "box"},
	})
	require.Len(t, items, 1)
	assert.Equal(t, "SKU-1", items[0].ItemCode)
	assert.Equal(t, "bolts", items[0].Description)
	assert.Equal(t, 2.0, items[0].Quantity)
	assert.Equal(t, 3.5, items[0].UnitPrice)
	assert.Equal(t, etrequest.UrgencyNormal, items[0].Urgency)
	assert.Equal(t, 7.0, items[0].LineTotal())
}
