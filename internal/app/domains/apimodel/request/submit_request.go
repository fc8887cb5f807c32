package request

// SubmitRequest 提交采购请求
// items 为未经校验的原始载荷，数值字段允许任意 JSON 类型，
// 由行项目校验器统一收集错误
type SubmitRequest struct {
	SupplierName string     `json:"supplier_name" binding:"required" example:"Acme Industrial Supply"`
	Items        []*RawItem `json:"items"`
	WaitSeconds  int        `json:"wait_seconds" binding:"omitempty,gte=0,lte=120" example:"10"`
}

// RawItem 原始行项目（未经校验）
type RawItem struct {
	ItemCode    string      `json:"item_code" example:"SKU-1001"`
	Description string      `json:"description" example:"M8 hex bolts, box of 100"`
	Quantity    interface{} `json:"quantity" swaggertype:"number" example:"5"`
	UnitPrice   interface{} `json:"unit_price" swaggertype:"number" example:"12.50"`
	UOM         string      `json:"uom" example:"box"`
	Urgency     string      `json:"urgency" example:"normal"`
}

// SubmitDocumentRequest 提交原始采购文档（经抽取后进入提交链路）
type SubmitDocumentRequest struct {
	Document    string `json:"document" binding:"required"`
	WaitSeconds int    `json:"wait_seconds" binding:"omitempty,gte=0,lte=120" example:"10"`
}

// DecisionRequest 人工决策请求
type DecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject escalate" example:"approve"`
	Notes    string `json:"notes" example:"within quarterly budget"`
}
