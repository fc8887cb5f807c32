package response

import "time"

// RequestResponse 采购请求响应（DTO）
type RequestResponse struct {
	ID            string          `json:"id"`
	SupplierName  string          `json:"supplier_name"`
	Items         []*ItemResponse `json:"items"`
	TotalAmount   float64         `json:"total_amount"`
	ApprovalLevel string          `json:"approval_level,omitempty"`
	State         string          `json:"state"`
	DecisionNotes []string        `json:"decision_notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ItemResponse 行项目响应（DTO）
type ItemResponse struct {
	ItemCode    string  `json:"item_code"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	UOM         string  `json:"uom"`
	Urgency     string  `json:"urgency"`
	LineTotal   float64 `json:"line_total"`
}

// StatusResponse 队列状态汇总响应（DTO）
type StatusResponse struct {
	Total  int64            `json:"total"`
	Counts map[string]int64 `json:"counts"`
}
