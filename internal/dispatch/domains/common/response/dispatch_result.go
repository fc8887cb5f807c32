package response

import (
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/dispatch/domains/common/job"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/dispatch/pkg/errorutil"
)

// DispatchResult 下发结果（实现 ResultI 接口）
type DispatchResult struct {
	ID           string           `json:"id"`
	Status       string           `json:"status"`
	DocumentPath string           `json:"document_path,omitempty"`
	Error        *errorutil.Error `json:"error,omitempty"`
}

const (
	DispatchStatusSuccess = "SUCCESS"
	DispatchStatusFailed  = "FAILED"
)

// NewDispatchResult 创建下发结果
func NewDispatchResult() *DispatchResult {
	return &DispatchResult{}
}

// Set 实现 ResultI 接口
func (r *DispatchResult) Set(meta *job.Meta, err error) {
	r.ID = meta.ID
	if err != nil {
		r.Status = DispatchStatusFailed
		r.Error = errorutil.Wrap(err)
	} else {
		r.Status = DispatchStatusSuccess
	}
}

// GetStatus 实现 ResultI 接口
func (r *DispatchResult) GetStatus() string {
	return r.Status
}
