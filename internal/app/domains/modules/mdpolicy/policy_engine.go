package mdpolicy

import (
	"fmt"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/errorx"
)

// PolicyLimit 审批限额（阈值 -> 审批层级）
type PolicyLimit struct {
	Threshold float64 // 阈值金额（含边界）
	Level     string  // 审批层级标签（如 auto / manager / executive）
}

// Decision 策略分类结果
type Decision struct {
	Level        string // 所需审批层级
	AutoApproved bool   // 是否免人工审批（仅最低档）
}

// Engine 审批策略引擎
// 限额表构造后只读，可在并发 Classify 间共享
type Engine struct {
	limits []PolicyLimit
}

// NewEngine 创建策略引擎
// 限额表必须非空且阈值严格递增，否则返回配置错误
func NewEngine(limits []PolicyLimit) (*Engine, error) {
	if len(limits) == 0 {
		return nil, fmt.Errorf("%w: empty policy limit table", errorx.ErrConfiguration)
	}

	prev := -1.0
	for i, limit := range limits {
		if limit.Threshold < 0 {
			return nil, fmt.Errorf("%w: limit[%d] threshold %.2f is negative",
				errorx.ErrConfiguration, i, limit.Threshold)
		}
		if limit.Threshold <= prev {
			return nil, fmt.Errorf("%w: thresholds must be strictly increasing, limit[%d]=%.2f after %.2f",
				errorx.ErrConfiguration, i, limit.Threshold, prev)
		}
		if limit.Level == "" {
			return nil, fmt.Errorf("%w: limit[%d] has empty approval level", errorx.ErrConfiguration, i)
		}
		prev = limit.Threshold
	}

	cp := make([]PolicyLimit, len(limits))
	copy(cp, limits)

	return &Engine{limits: cp}, nil
}

// Classify 按金额分类审批层级（纯函数、确定性）
// 命中首个阈值 >= 金额的限额；金额恰等于阈值归入该档而非上一档
// 超出全部阈值归入最高层级且不免审
func (e *Engine) Classify(totalAmount float64) Decision {
	for i, limit := range e.limits {
		if totalAmount <= limit.Threshold {
			return Decision{
				Level:        limit.Level,
				AutoApproved: i == 0,
			}
		}
	}

	return Decision{
		Level:        e.limits[len(e.limits)-1].Level,
		AutoApproved: false,
	}
}

// Limits 返回限额表副本（调试/展示用）
func (e *Engine) Limits() []PolicyLimit {
	cp := make([]PolicyLimit, len(e.limits))
	copy(cp, e.limits)
	return cp
}
