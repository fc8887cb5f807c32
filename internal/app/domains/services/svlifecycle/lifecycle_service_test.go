package svlifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/modules/mdpolicy"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/modules/mdqueue"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/modules/mdvalidate"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/repo/rprecord"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/repo/rprequest"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/errorx"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/logger"
)

// flakyRecordStore 前 failures 次 Commit 失败，之后委托给内存实现
type flakyRecordStore struct {
	inner    *rprecord.MemoryRecordStore
	failures int
	calls    int
}

func (s *flakyRecordStore) Commit(ctx context.Context, req *etrequest.PurchaseRequest) (string, error) {
	s.calls++
	if s.calls <= s.failures {
		return "", errors.New("record store unavailable")
	}
	return s.inner.Commit(ctx, req)
}

// failingUpdateRepository 目标状态的前 failures 次 Update 失败，其余委托内存实现
type failingUpdateRepository struct {
	rprequest.RequestRepository
	failState etrequest.State
	failures  int
	calls     int
}

func (r *failingUpdateRepository) Update(ctx context.Context, req *etrequest.PurchaseRequest) error {
	if req.State == r.failState && r.calls < r.failures {
		r.calls++
		return errors.New("database unavailable")
	}
	return r.RequestRepository.Update(ctx, req)
}

type stubExtractor struct {
	input *SubmitInput
	err   error
}

func (e *stubExtractor) Extract(ctx context.Context, document []byte) (*SubmitInput, error) {
	return e.input, e.err
}

func newTestService(t *testing.T, records rprecord.RecordStore) *LifecycleService {
	t.Helper()
	return newTestServiceWithRepo(t, rprequest.NewMemoryRepository(), records)
}

func newTestServiceWithRepo(t *testing.T, repo rprequest.RequestRepository, records rprecord.RecordStore) *LifecycleService {
	t.Helper()

	validator := mdvalidate.NewItemValidator()
	queue := mdqueue.NewQueueModule(repo, validator)

	policy, err := mdpolicy.NewEngine([]mdpolicy.PolicyLimit{
		{Threshold: 1000, Level: "auto"},
		{Threshold: 10000, Level: "manager"},
		{Threshold: 100000, Level: "director"},
	})
	require.NoError(t, err)

	if records == nil {
		records = rprecord.NewMemoryRecordStore()
	}

	return NewLifecycleService(queue, validator, policy, records, nil, nil,
		time.Second, logger.NopLogger{})
}

func submitInput(unitPrice float64) *SubmitInput {
	return &SubmitInput{
		SupplierName: "Acme",
		Items: []mdvalidate.RawItem{
			{ItemCode: "SKU-1", Description: "bolts", Quantity: 1, UnitPrice: unitPrice, UOM: "box"},
		},
	}
}

func TestSubmitAutoApproved(t *testing.T) {
	store := rprecord.NewMemoryRecordStore()
	s := newTestService(t, store)
	ctx := context.Background()

	req, err := s.Submit(ctx, submitInput(500), 0)
	require.NoError(t, err)

	assert.Equal(t, etrequest.StateCommitted, req.State)
	assert.Equal(t, "auto", req.ApprovalLevel)
	assert.Equal(t, 1, store.Count())

	notes := req.DecisionNotes
	require.NotEmpty(t, notes)
	assert.Contains(t, notes[0], "policy: amount=500.00 level=auto auto_approved=true")
}

func TestSubmitValidationFailure(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	in := &SubmitInput{
		SupplierName: "Acme",
		Items: []mdvalidate.RawItem{
			{ItemCode: "", Description: "", Quantity: -1, UnitPrice: 1, UOM: ""},
		},
	}

	req, err := s.Submit(ctx, in, 0)
	require.Error(t, err)

	ve, ok := errorx.AsValidationError(err)
	require.True(t, ok)
	assert.NotEmpty(t, ve.Details)

	// 校验失败的请求以 rejected 终态落库
	require.NotNil(t, req)
	assert.Equal(t, etrequest.StateRejected, req.State)

	stored, getErr := s.Get(ctx, req.ID)
	require.NoError(t, getErr)
	assert.Equal(t, etrequest.StateRejected, stored.State)
}

func TestSubmitManualApprovalFlow(t *testing.T) {
	store := rprecord.NewMemoryRecordStore()
	s := newTestService(t, store)
	ctx := context.Background()

	req, err := s.Submit(ctx, submitInput(5000), 0)
	require.NoError(t, err)
	assert.Equal(t, etrequest.StatePendingApproval, req.State)
	assert.Equal(t, "manager", req.ApprovalLevel)
	assert.Equal(t, 0, store.Count())

	pending, err := s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	decided, err := s.Decide(ctx, req.ID, DecisionApprove, "within budget")
	require.NoError(t, err)
	assert.Equal(t, etrequest.StateCommitted, decided.State)
	assert.Equal(t, 1, store.Count())
}

func TestSubmitEscalateFlow(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	req, err := s.Submit(ctx, submitInput(5000), 0)
	require.NoError(t, err)

	escalated, err := s.Decide(ctx, req.ID, DecisionEscalate, "above my authority")
	require.NoError(t, err)
	assert.Equal(t, etrequest.StateEscalated, escalated.State)

	// 升级后的请求仍在待审批列表
	pending, err := s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	committed, err := s.Decide(ctx, req.ID, DecisionApprove, "director sign-off")
	require.NoError(t, err)
	assert.Equal(t, etrequest.StateCommitted, committed.State)
}

func TestDecideReject(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	req, err := s.Submit(ctx, submitInput(5000), 0)
	require.NoError(t, err)

	rejected, err := s.Decide(ctx, req.ID, DecisionReject, "over budget")
	require.NoError(t, err)
	assert.Equal(t, etrequest.StateRejected, rejected.State)

	// 终态不接受再次决策
	_, err = s.Decide(ctx, req.ID, DecisionApprove, "")
	assert.ErrorIs(t, err, errorx.ErrInvalidTransition)
}

func TestDecideUnknownDecision(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	req, err := s.Submit(ctx, submitInput(5000), 0)
	require.NoError(t, err)

	_, err = s.Decide(ctx, req.ID, Decision("maybe"), "")
	assert.ErrorIs(t, err, errorx.ErrUnknownDecision)
}

func TestDecideUnknownRequest(t *testing.T) {
	s := newTestService(t, nil)

	_, err := s.Decide(context.Background(), "PQ-missing", DecisionApprove, "")
	assert.ErrorIs(t, err, errorx.ErrNotFound)
}

func TestCommitFailureRevertsApproval(t *testing.T) {
	store := &flakyRecordStore{inner: rprecord.NewMemoryRecordStore(), failures: 1}
	s := newTestService(t, store)
	ctx := context.Background()

	// 免审请求首次 commit 失败
	req, err := s.Submit(ctx, submitInput(500), 0)
	require.Error(t, err)
	assert.True(t, errorx.IsRetryable(err))

	// 回滚到 pending_approval，未出现 已审批未落库 状态
	require.NotNil(t, req)
	assert.Equal(t, etrequest.StatePendingApproval, req.State)
	assert.Equal(t, 0, store.inner.Count())

	// 重试走人工审批链路，第二次 commit 成功
	decided, err := s.Decide(ctx, req.ID, DecisionApprove, "retry")
	require.NoError(t, err)
	assert.Equal(t, etrequest.StateCommitted, decided.State)
	assert.Equal(t, 1, store.inner.Count())
}

func TestMarkCommittedFailureRevertsApproval(t *testing.T) {
	store := rprecord.NewMemoryRecordStore()
	repo := &failingUpdateRepository{
		RequestRepository: rprequest.NewMemoryRepository(),
		failState:         etrequest.StateCommitted,
		failures:          1,
	}
	s := newTestServiceWithRepo(t, repo, store)
	ctx := context.Background()

	req, err := s.Submit(ctx, submitInput(5000), 0)
	require.NoError(t, err)
	assert.Equal(t, etrequest.StatePendingApproval, req.State)

	// commit 成功但状态推进失败：回滚到 pending_approval，不停滞在 approved
	reverted, err := s.Decide(ctx, req.ID, DecisionApprove, "first")
	require.Error(t, err)
	assert.True(t, errorx.IsRetryable(err))
	require.NotNil(t, reverted)
	assert.Equal(t, etrequest.StatePendingApproval, reverted.State)
	assert.Equal(t, 1, store.Count())

	// 重新审批：commit 幂等命中同一条记录，状态推进成功
	committed, err := s.Decide(ctx, req.ID, DecisionApprove, "retry")
	require.NoError(t, err)
	assert.Equal(t, etrequest.StateCommitted, committed.State)
	assert.Equal(t, 1, store.Count())
}

func TestRecordStoreIdempotency(t *testing.T) {
	store := rprecord.NewMemoryRecordStore()
	ctx := context.Background()

	req, err := etrequest.NewPurchaseRequest("PQ-1", "Acme", nil)
	require.NoError(t, err)

	first, err := store.Commit(ctx, req)
	require.NoError(t, err)

	second, err := store.Commit(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.Count())
}

func TestSubmitDocument(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	// extractor 未配置
	_, err := s.SubmitDocument(ctx, []byte("raw"), 0)
	require.Error(t, err)

	s.extractor = &stubExtractor{input: submitInput(500)}
	req, err := s.SubmitDocument(ctx, []byte("raw"), 0)
	require.NoError(t, err)
	assert.Equal(t, etrequest.StateCommitted, req.State)

	s.extractor = &stubExtractor{err: errors.New("unreadable document")}
	_, err = s.SubmitDocument(ctx, []byte("raw"), 0)
	assert.ErrorContains(t, err, "extract document failed")
}

func TestRemoveTerminalOnly(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	req, err := s.Submit(ctx, submitInput(5000), 0)
	require.NoError(t, err)

	err = s.Remove(ctx, req.ID)
	assert.ErrorIs(t, err, errorx.ErrRequestNotTerminal)

	_, err = s.Decide(ctx, req.ID, DecisionReject, "no")
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, req.ID))
}

func TestStatusSummary(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	_, err := s.Submit(ctx, submitInput(500), 0) // committed
	require.NoError(t, err)
	_, err = s.Submit(ctx, submitInput(5000), 0) // pending
	require.NoError(t, err)

	counts, err := s.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[etrequest.StateCommitted])
	assert.Equal(t, int64(1), counts[etrequest.StatePendingApproval])
}
