package response

import (
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"
)

// FromRequestEntity 从领域对象转换为响应 DTO
func FromRequestEntity(req *etrequest.PurchaseRequest) *RequestResponse {
	items := make([]*ItemResponse, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, &ItemResponse{
			ItemCode:    item.ItemCode,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			UOM:         item.UOM,
			Urgency:     string(item.Urgency),
			LineTotal:   item.LineTotal(),
		})
	}

	notes := req.DecisionNotes
	if notes == nil {
		notes = []string{}
	}

	return &RequestResponse{
		ID:            req.ID,
		SupplierName:  req.SupplierName,
		Items:         items,
		TotalAmount:   req.TotalAmount,
		ApprovalLevel: req.ApprovalLevel,
		State:         req.State.String(),
		DecisionNotes: notes,
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
	}
}

// FromRequestEntities 批量转换
func FromRequestEntities(reqs []*etrequest.PurchaseRequest) []*RequestResponse {
	out := make([]*RequestResponse, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, FromRequestEntity(req))
	}
	return out
}

// FromStatusCounts 从状态计数转换为汇总 DTO
func FromStatusCounts(counts map[etrequest.State]int64) *StatusResponse {
	resp := &StatusResponse{Counts: make(map[string]int64, len(counts))}
	for state, n := range counts {
		resp.Counts[state.String()] = n
		resp.Total += n
	}
	return resp
}
