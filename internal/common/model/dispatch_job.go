package model

import "github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"

// PODispatchJob 采购订单下发任务消息（标准化）
// 用于 apiserver -> dispatch worker 的消息传递
type PODispatchJob struct {
	Payload PODispatchPayload `json:"payload"`
}

// PODispatchPayload Job 负载
type PODispatchPayload struct {
	Data PODispatchData `json:"data"`
}

// PODispatchData Job 数据层
type PODispatchData struct {
	// 元信息
	RequestID  string `json:"request_id"`  // 请求 ID（全链路追踪）
	OrgID      string `json:"org_id"`      // 组织 ID（MVP 固定为 "0"）
	ActionType string `json:"action_type"` // 动作类型，固定值 "po_dispatch"
	ID         string `json:"id"`          // 采购请求 ID

	// 业务数据
	Data PODispatchBusinessData `json:"data"`
}

// PODispatchBusinessData 下发业务数据
// 包含 worker 生成文档所需的全部数据（避免回查 DB）
type PODispatchBusinessData struct {
	PurchaseRequestID string               `json:"purchase_request_id"` // 采购请求 ID
	RecordID          string               `json:"record_id"`           // PO 记录 ID
	SupplierName      string               `json:"supplier_name"`       // 供应商名称
	Items             []etrequest.LineItem `json:"items"`               // 行项目
	TotalAmount       float64              `json:"total_amount"`        // 金额合计
}

// ActionTypePODispatch 下发任务路由键
const ActionTypePODispatch = "po_dispatch"

// PODispatchResult 下发结果消息（worker 经 Redis 通知）
type PODispatchResult struct {
	RequestID         string `json:"request_id"`                  // 链路追踪 ID
	PurchaseRequestID string `json:"purchase_request_id"`         // 采购请求 ID
	Status            string `json:"status"`                      // SUCCESS / FAILED
	DocumentPath      string `json:"document_path,omitempty"`     // 生成的 PO 文档路径
	Error             string `json:"error,omitempty"`             // 错误信息（失败时返回）
	ProcessedAt       int64  `json:"processed_at"`                // 处理时间戳（Unix timestamp）
}

// 下发结果状态常量
const (
	DispatchStatusSuccess = "SUCCESS"
	DispatchStatusFailed  = "FAILED"
)
