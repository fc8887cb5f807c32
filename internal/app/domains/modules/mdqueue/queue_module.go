package mdqueue

import (
	"context"
	"fmt"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/modules/mdvalidate"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/repo/rprequest"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/errorx"
)

// QueueModule 采购请求队列模块（业务编排层）
// 职责：
// 1. 入队即校验：校验失败直接进入 rejected 终态
// 2. 按流转图推进状态，非法流转不落库
// 3. 同一 request_id 的变更串行化
type QueueModule struct {
	repo      rprequest.RequestRepository
	validator *mdvalidate.ItemValidator
	locks     *keyLock
}

// NewQueueModule 创建队列模块
func NewQueueModule(repo rprequest.RequestRepository, validator *mdvalidate.ItemValidator) *QueueModule {
	return &QueueModule{
		repo:      repo,
		validator: validator,
		locks:     newKeyLock(),
	}
}

// Add 入队（received -> validating -> rejected | pending_approval）
// 校验失败的请求以 rejected 终态落库，decision_notes 记录全部校验错误
// 返回入队后的请求与校验结果
func (m *QueueModule) Add(ctx context.Context, req *etrequest.PurchaseRequest, rawItems []mdvalidate.RawItem) (*etrequest.PurchaseRequest, *mdvalidate.ValidationResult, error) {
	lock := m.locks.acquire(req.ID)
	lock.Lock()
	defer lock.Unlock()

	if req.State != etrequest.StateReceived {
		return nil, nil, fmt.Errorf("%w: add requires state %s, got %s",
			errorx.ErrInvalidTransition, etrequest.StateReceived, req.State)
	}

	if err := req.TransitionTo(etrequest.StateValidating); err != nil {
		return nil, nil, err
	}

	result := m.validator.Validate(rawItems)
	if !result.Valid {
		for _, note := range result.ErrorStrings() {
			req.AppendNote("validation: " + note)
		}
		if err := req.TransitionTo(etrequest.StateRejected); err != nil {
			return nil, nil, err
		}
	} else {
		req.SetItems(m.validator.BuildLineItems(rawItems))
		if err := req.TransitionTo(etrequest.StatePendingApproval); err != nil {
			return nil, nil, err
		}
	}

	if err := m.repo.Create(ctx, req); err != nil {
		return nil, nil, fmt.Errorf("save purchase request failed: %w", err)
	}

	return req, result, nil
}

// Get 查询采购请求
func (m *QueueModule) Get(ctx context.Context, requestID string) (*etrequest.PurchaseRequest, error) {
	req, err := m.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get purchase request failed: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: %s", errorx.ErrNotFound, requestID)
	}
	return req, nil
}

// ListPending 查询待审批请求（pending_approval / escalated）
// created_at 升序，同时间按入队序号升序（先提交先列出）
func (m *QueueModule) ListPending(ctx context.Context) ([]*etrequest.PurchaseRequest, error) {
	return m.repo.ListByStates(ctx, []etrequest.State{
		etrequest.StatePendingApproval,
		etrequest.StateEscalated,
	})
}

// UpdateState 按流转图推进状态
// 非法流转返回 ErrInvalidTransition 且状态保持不变
func (m *QueueModule) UpdateState(ctx context.Context, requestID string, target etrequest.State, note string) (*etrequest.PurchaseRequest, error) {
	lock := m.locks.acquire(requestID)
	lock.Lock()
	defer lock.Unlock()

	req, err := m.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := req.TransitionTo(target); err != nil {
		return nil, err
	}
	req.AppendNote(note)

	if err := m.repo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("update purchase request failed: %w", err)
	}

	return req, nil
}

// RevertApproval 审批回滚（approved -> pending_approval）
// 仅供协调方在 commit 失败时调用，是两阶段提交的回退半步，
// 不属于对外流转图
func (m *QueueModule) RevertApproval(ctx context.Context, requestID string, note string) (*etrequest.PurchaseRequest, error) {
	lock := m.locks.acquire(requestID)
	lock.Lock()
	defer lock.Unlock()

	req, err := m.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := req.RevertApproval(); err != nil {
		return nil, err
	}
	req.AppendNote(note)

	if err := m.repo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("revert purchase request failed: %w", err)
	}

	return req, nil
}

// Remove 移除采购请求（仅终态允许）
func (m *QueueModule) Remove(ctx context.Context, requestID string) error {
	lock := m.locks.acquire(requestID)
	lock.Lock()
	defer lock.Unlock()

	req, err := m.Get(ctx, requestID)
	if err != nil {
		return err
	}

	if !req.State.IsTerminal() {
		return fmt.Errorf("%w: %s is %s", errorx.ErrRequestNotTerminal, requestID, req.State)
	}

	if err := m.repo.Delete(ctx, requestID); err != nil {
		return err
	}

	// 请求 ID 不回收，移除后连带淘汰锁，避免锁表只增不减
	m.locks.release(requestID)
	return nil
}

// Status 队列状态汇总（按状态计数）
func (m *QueueModule) Status(ctx context.Context) (map[etrequest.State]int64, error) {
	return m.repo.CountByState(ctx)
}
