package podispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/common/model"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/dispatch/business"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/dispatch/domains/common"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/dispatch/domains/common/job"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/dispatch/domains/common/response"
)

// DispatchHandler PO 下发 Handler
type DispatchHandler struct {
	ctx     context.Context
	meta    *job.Meta
	bizData *model.PODispatchBusinessData
}

// NewDispatchHandler 创建下发 Handler
// 解析标准化 Job 消息
func NewDispatchHandler(ctx context.Context, meta *job.Meta, payload interface{}) (common.HandlerServ, error) {
	// 解析 payload（业务数据）
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload failed: %w", err)
	}

	var bizData model.PODispatchBusinessData
	if err := json.Unmarshal(payloadBytes, &bizData); err != nil {
		return nil, fmt.Errorf("unmarshal business data failed: %w", err)
	}

	// 校验必填字段
	if bizData.PurchaseRequestID == "" {
		return nil, fmt.Errorf("purchase_request_id is required")
	}
	if bizData.RecordID == "" {
		return nil, fmt.Errorf("record_id is required")
	}

	return &DispatchHandler{
		ctx:     ctx,
		meta:    meta,
		bizData: &bizData,
	}, nil
}

// GetProcess 处理下发请求
func (h *DispatchHandler) GetProcess() *response.Response {
	result := response.NewDispatchResult()

	err := h.process(result)

	resp := &response.Response{}
	resp.WrapResponse(result, h.meta, err)

	return resp
}

// process 业务处理逻辑
func (h *DispatchHandler) process(result *response.DispatchResult) error {
	// 从 Context 获取 DispatchService
	dispatchService, ok := h.ctx.Value("dispatch_service").(*business.DispatchService)
	if !ok || dispatchService == nil {
		return fmt.Errorf("DispatchService not found in context")
	}

	input := &business.DispatchInput{
		RequestID:         h.meta.RequestID,
		PurchaseRequestID: h.bizData.PurchaseRequestID,
		RecordID:          h.bizData.RecordID,
		SupplierName:      h.bizData.SupplierName,
		Items:             h.bizData.Items,
		TotalAmount:       h.bizData.TotalAmount,
	}

	if err := dispatchService.ExecuteDispatch(h.ctx, input); err != nil {
		return err
	}

	return nil
}
