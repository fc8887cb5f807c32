package svlifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/modules/mdpolicy"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/modules/mdqueue"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/modules/mdvalidate"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/repo/rprecord"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/errorx"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/logger"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/common/model"
)

// Decision 人工决策（封闭枚举）
type Decision string

const (
	DecisionApprove  Decision = "approve"
	DecisionReject   Decision = "reject"
	DecisionEscalate Decision = "escalate"
)

// SubmitInput 原始采购请求载荷（文档抽取或人工输入，未经校验）
type SubmitInput struct {
	SupplierName string
	Items        []mdvalidate.RawItem
}

// Extractor 文档抽取协作方
// 输出视为不可信输入，提交链路执行完整校验
type Extractor interface {
	Extract(ctx context.Context, document []byte) (*SubmitInput, error)
}

// Dispatcher 下发协作方（commit 后的文档/邮件生成链路）
type Dispatcher interface {
	PublishDispatchJob(ctx context.Context, req *etrequest.PurchaseRequest, recordID string) error
	WaitForDispatchResult(ctx context.Context, requestID string, timeout time.Duration) (*model.PODispatchResult, error)
}

// LifecycleService 采购请求生命周期协调服务
// 编排 校验 -> 策略分类 -> 入队 -> 审批 -> 落库 的完整链路
type LifecycleService struct {
	queue         *mdqueue.QueueModule
	validator     *mdvalidate.ItemValidator
	policy        *mdpolicy.Engine
	records       rprecord.RecordStore
	dispatcher    Dispatcher // 可为 nil（下发链路可选）
	extractor     Extractor  // 可为 nil（仅 SubmitDocument 需要）
	commitTimeout time.Duration
	logger        logger.Logger
}

// NewLifecycleService 创建生命周期服务实例
func NewLifecycleService(
	queue *mdqueue.QueueModule,
	validator *mdvalidate.ItemValidator,
	policy *mdpolicy.Engine,
	records rprecord.RecordStore,
	dispatcher Dispatcher,
	extractor Extractor,
	commitTimeout time.Duration,
	log logger.Logger,
) *LifecycleService {
	if commitTimeout <= 0 {
		commitTimeout = 5 * time.Second
	}
	return &LifecycleService{
		queue:         queue,
		validator:     validator,
		policy:        policy,
		records:       records,
		dispatcher:    dispatcher,
		extractor:     extractor,
		commitTimeout: commitTimeout,
		logger:        log,
	}
}

// Submit 提交采购请求（完整业务流程）
// 1. 校验行项目
// 2. 计算金额合计，策略分类写入 decision_notes
// 3. 入队（校验失败以 rejected 终态落库并返回校验错误）
// 4. 免审请求同步走 审批 -> 落库，失败回滚到 pending_approval
// 5. Smart Wait（可选，等待下发结果）
func (s *LifecycleService) Submit(ctx context.Context, in *SubmitInput, waitSeconds int) (*etrequest.PurchaseRequest, error) {
	req, err := etrequest.NewPurchaseRequest("PQ-"+uuid.New().String(), in.SupplierName, nil)
	if err != nil {
		return nil, fmt.Errorf("create request entity failed: %w", err)
	}
	ctx = context.WithValue(ctx, "request_id", req.ID)

	result := s.validator.Validate(in.Items)
	if !result.Valid {
		// 校验失败：入队为 rejected 终态，结构化错误返回调用方
		stored, _, addErr := s.queue.Add(ctx, req, in.Items)
		if addErr != nil {
			return nil, fmt.Errorf("reject invalid request failed: %w", addErr)
		}
		s.logger.Infof(ctx, "[Lifecycle] request rejected on validation: %d issues", len(result.Errors))
		return stored, result.AsError()
	}

	req.SetItems(s.validator.BuildLineItems(in.Items))

	decision := s.policy.Classify(req.TotalAmount)
	req.ApprovalLevel = decision.Level
	req.AppendNote(fmt.Sprintf("policy: amount=%.2f level=%s auto_approved=%t",
		req.TotalAmount, decision.Level, decision.AutoApproved))

	stored, _, err := s.queue.Add(ctx, req, in.Items)
	if err != nil {
		return nil, fmt.Errorf("enqueue request failed: %w", err)
	}

	s.logger.Infof(ctx, "[Lifecycle] request submitted: amount=%.2f, level=%s, auto=%t",
		stored.TotalAmount, decision.Level, decision.AutoApproved)

	if decision.AutoApproved {
		committed, err := s.approveAndCommit(ctx, stored.ID, "auto-approved by policy")
		if err != nil {
			return committed, err
		}
		stored = committed

		if waitSeconds > 0 {
			s.waitForDispatch(ctx, stored.ID, waitSeconds)
		}
	}

	return stored, nil
}

// SubmitDocument 提交原始文档（经 Extractor 抽取后走 Submit）
func (s *LifecycleService) SubmitDocument(ctx context.Context, document []byte, waitSeconds int) (*etrequest.PurchaseRequest, error) {
	if s.extractor == nil {
		return nil, errors.New("extractor is not configured")
	}

	in, err := s.extractor.Extract(ctx, document)
	if err != nil {
		return nil, fmt.Errorf("extract document failed: %w", err)
	}

	return s.Submit(ctx, in, waitSeconds)
}

// Decide 人工决策入口（pending_approval / escalated）
// approve 走与免审相同的 落库或回滚 链路
func (s *LifecycleService) Decide(ctx context.Context, requestID string, decision Decision, notes string) (*etrequest.PurchaseRequest, error) {
	ctx = context.WithValue(ctx, "request_id", requestID)

	switch decision {
	case DecisionApprove:
		note := "approved"
		if notes != "" {
			note = "approved: " + notes
		}
		return s.approveAndCommit(ctx, requestID, note)

	case DecisionReject:
		note := "rejected"
		if notes != "" {
			note = "rejected: " + notes
		}
		return s.queue.UpdateState(ctx, requestID, etrequest.StateRejected, note)

	case DecisionEscalate:
		note := "escalated"
		if notes != "" {
			note = "escalated: " + notes
		}
		return s.queue.UpdateState(ctx, requestID, etrequest.StateEscalated, note)

	default:
		return nil, fmt.Errorf("%w: %q", errorx.ErrUnknownDecision, decision)
	}
}

// Get 查询采购请求
func (s *LifecycleService) Get(ctx context.Context, requestID string) (*etrequest.PurchaseRequest, error) {
	return s.queue.Get(ctx, requestID)
}

// ListPending 查询待审批请求（FIFO）
func (s *LifecycleService) ListPending(ctx context.Context) ([]*etrequest.PurchaseRequest, error) {
	return s.queue.ListPending(ctx)
}

// Remove 移除终态请求
func (s *LifecycleService) Remove(ctx context.Context, requestID string) error {
	return s.queue.Remove(ctx, requestID)
}

// Status 队列状态汇总
func (s *LifecycleService) Status(ctx context.Context) (map[etrequest.State]int64, error) {
	return s.queue.Status(ctx)
}

// approveAndCommit 审批并落库（两阶段：approve-then-persist-or-revert）
// commit 受超时约束；失败或超时回滚到 pending_approval，
// 禁止出现 已审批未落库 的可见状态
func (s *LifecycleService) approveAndCommit(ctx context.Context, requestID string, note string) (*etrequest.PurchaseRequest, error) {
	req, err := s.queue.UpdateState(ctx, requestID, etrequest.StateApproved, note)
	if err != nil {
		return nil, err
	}

	commitCtx, cancel := context.WithTimeout(ctx, s.commitTimeout)
	recordID, commitErr := s.records.Commit(commitCtx, req)
	cancel()

	if commitErr != nil {
		s.logger.Errorf(ctx, "[Lifecycle] commit failed, reverting approval: %v", commitErr)

		reverted, revertErr := s.queue.RevertApproval(ctx, requestID,
			fmt.Sprintf("commit failed, approval reverted: %v", commitErr))
		if revertErr != nil {
			// 回滚自身失败：请求仍停在 approved，必须显式暴露
			return nil, fmt.Errorf("revert after commit failure failed: %v (commit error: %w)",
				revertErr, commitErr)
		}

		if errorx.IsRetryable(commitErr) {
			return reverted, commitErr
		}
		return reverted, errorx.Retriable("persist purchase record failed", commitErr)
	}

	committed, err := s.queue.UpdateState(ctx, requestID, etrequest.StateCommitted,
		fmt.Sprintf("committed: record=%s", recordID))
	if err != nil {
		// 状态推进失败同样回滚到 pending_approval，避免停滞在 approved；
		// Commit 按 request_id 幂等，重新审批会拿到同一条记录
		s.logger.Errorf(ctx, "[Lifecycle] mark committed failed, reverting approval: %v", err)

		reverted, revertErr := s.queue.RevertApproval(ctx, requestID,
			fmt.Sprintf("mark committed failed, approval reverted: %v", err))
		if revertErr != nil {
			return nil, fmt.Errorf("revert after mark committed failure failed: %v (update error: %w)",
				revertErr, err)
		}
		return reverted, errorx.Retriable("mark purchase request committed failed", err)
	}

	s.logger.Infof(ctx, "[Lifecycle] request committed: record=%s", recordID)

	// 下发任务发布失败只记录日志，不影响 commit 成功
	if s.dispatcher != nil {
		if err := s.dispatcher.PublishDispatchJob(ctx, committed, recordID); err != nil {
			s.logger.Warnf(ctx, "[Lifecycle] publish dispatch job failed: %v", err)
		}
	}

	return committed, nil
}

// waitForDispatch 等待下发结果（Smart Wait），超时只记录日志
func (s *LifecycleService) waitForDispatch(ctx context.Context, requestID string, waitSeconds int) {
	if s.dispatcher == nil {
		return
	}

	timeout := time.Duration(waitSeconds) * time.Second
	result, err := s.dispatcher.WaitForDispatchResult(ctx, requestID, timeout)
	if err != nil {
		s.logger.Warnf(ctx, "[Lifecycle] wait for dispatch result failed: %v", err)
		return
	}

	s.logger.Infof(ctx, "[Lifecycle] dispatch result: status=%s, document=%s",
		result.Status, result.DocumentPath)
}
