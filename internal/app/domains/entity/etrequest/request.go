package etrequest

import (
	"errors"
	"fmt"
	"time"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/errorx"
)

// 错误定义
var ErrInvalidRequestID = errors.New("request ID cannot be empty")

// Urgency 行项目紧急程度
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyNormal   Urgency = "normal"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// ParseUrgency 解析紧急程度
// 空值默认 normal，未知值返回 false
func ParseUrgency(s string) (Urgency, bool) {
	switch Urgency(s) {
	case "":
		return UrgencyNormal, true
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyCritical:
		return Urgency(s), true
	default:
		return "", false
	}
}

// LineItem 采购行项目（值对象）
type LineItem struct {
	ItemCode    string  `json:"item_code"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	UOM         string  `json:"uom"`
	Urgency     Urgency `json:"urgency"`
}

// LineTotal 行合计
func (i LineItem) LineTotal() float64 {
	return i.Quantity * i.UnitPrice
}

// PurchaseRequest 采购请求聚合根（领域对象）
type PurchaseRequest struct {
	ID            string     // 请求ID (PQ-xxx)，提交时生成，不可变
	Seq           int64      // 入队序号（同 CreatedAt 时的次序键）
	SupplierName  string     // 供应商名称
	Items         []LineItem // 行项目
	TotalAmount   float64    // 金额合计（行合计之和）
	ApprovalLevel string     // 审批层级（策略分类结果）
	State         State      // 生命周期状态
	DecisionNotes []string   // 决策备注轨迹
	CreatedAt     time.Time  // 创建时间
	UpdatedAt     time.Time  // 更新时间
}

// NewPurchaseRequest 创建采购请求（工厂方法）
// 行项目允许为空：校验失败的请求同样入队并被拒绝
func NewPurchaseRequest(id string, supplierName string, items []LineItem) (*PurchaseRequest, error) {
	if id == "" {
		return nil, ErrInvalidRequestID
	}

	now := time.Now()
	req := &PurchaseRequest{
		ID:           id,
		SupplierName: supplierName,
		Items:        items,
		State:        StateReceived,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	req.RecomputeTotal()

	return req, nil
}

// RecomputeTotal 重新计算金额合计
// 行项目每次变更后必须调用，禁止信任缓存值
func (r *PurchaseRequest) RecomputeTotal() float64 {
	total := 0.0
	for _, item := range r.Items {
		total += item.LineTotal()
	}
	r.TotalAmount = total
	return total
}

// SetItems 替换行项目并重算合计
func (r *PurchaseRequest) SetItems(items []LineItem) {
	r.Items = items
	r.RecomputeTotal()
	r.UpdatedAt = time.Now()
}

// TransitionTo 按流转图推进状态（领域行为）
// 非法流转返回 ErrInvalidTransition 且状态保持不变
func (r *PurchaseRequest) TransitionTo(target State) error {
	if !r.State.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", errorx.ErrInvalidTransition, r.State, target)
	}
	r.State = target
	r.UpdatedAt = time.Now()
	return nil
}

// RevertApproval 审批回滚：approved -> pending_approval
// 仅用于 commit 失败时的两阶段回退，不属于对外流转图
func (r *PurchaseRequest) RevertApproval() error {
	if r.State != StateApproved {
		return fmt.Errorf("%w: revert from %s", errorx.ErrInvalidTransition, r.State)
	}
	r.State = StatePendingApproval
	r.UpdatedAt = time.Now()
	return nil
}

// AppendNote 追加决策备注（带时间戳）
func (r *PurchaseRequest) AppendNote(note string) {
	if note == "" {
		return
	}
	r.DecisionNotes = append(r.DecisionNotes,
		fmt.Sprintf("[%s] %s", time.Now().Format(time.RFC3339), note))
	r.UpdatedAt = time.Now()
}
