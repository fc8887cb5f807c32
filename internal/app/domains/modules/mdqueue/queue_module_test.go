package mdqueue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/modules/mdvalidate"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/repo/rprequest"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/errorx"
)

func newTestModule() *QueueModule {
	return NewQueueModule(rprequest.NewMemoryRepository(), mdvalidate.NewItemValidator())
}

func validRawItems() []mdvalidate.RawItem {
	return []mdvalidate.RawItem{
		{ItemCode: "SKU-1", Description: "bolts", Quantity: 2, UnitPrice: 5, UOM: "box"},
	}
}

func newReceived(t *testing.T, id string) *etrequest.PurchaseRequest {
	t.Helper()
	req, err := etrequest.NewPurchaseRequest(id, "Acme", nil)
	require.NoError(t, err)
	return req
}

func TestAddValidRequest(t *testing.T) {
	m := newTestModule()
	ctx := context.Background()

	stored, result, err := m.Add(ctx, newReceived(t, "PQ-1"), validRawItems())
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, etrequest.StatePendingApproval, stored.State)
	assert.Equal(t, 10.0, stored.TotalAmount)

	got, err := m.Get(ctx, "PQ-1")
	require.NoError(t, err)
	assert.Equal(t, etrequest.StatePendingApproval, got.State)
}

func TestAddInvalidRequestStoredAsRejected(t *testing.T) {
	m := newTestModule()
	ctx := context.Background()

	stored, result, err := m.Add(ctx, newReceived(t, "PQ-1"), nil)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, etrequest.StateRejected, stored.State)
	require.NotEmpty(t, stored.DecisionNotes)
	assert.Contains(t, stored.DecisionNotes[0], "validation: items: at least one item required")

	// 拒绝的请求不出现在待审批列表
	pending, err := m.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestAddDuplicateID(t *testing.T) {
	m := newTestModule()
	ctx := context.Background()

	_, _, err := m.Add(ctx, newReceived(t, "PQ-1"), validRawItems())
	require.NoError(t, err)

	_, _, err = m.Add(ctx, newReceived(t, "PQ-1"), validRawItems())
	assert.ErrorIs(t, err, errorx.ErrDuplicateRequest)
}

func TestAddRequiresReceivedState(t *testing.T) {
	m := newTestModule()
	ctx := context.Background()

	req := newReceived(t, "PQ-1")
	require.NoError(t, req.TransitionTo(etrequest.StateValidating))

	_, _, err := m.Add(ctx, req, validRawItems())
	assert.ErrorIs(t, err, errorx.ErrInvalidTransition)
}

func TestGetNotFound(t *testing.T) {
	m := newTestModule()

	_, err := m.Get(context.Background(), "PQ-missing")
	assert.ErrorIs(t, err, errorx.ErrNotFound)
}

func TestListPendingFIFO(t *testing.T) {
	m := newTestModule()
	ctx := context.Background()

	// 相同 created_at，按入队次序排序
	now := time.Now()
	for _, id := range []string{"PQ-1", "PQ-2", "PQ-3"} {
		req := newReceived(t, id)
		req.CreatedAt = now
		_, _, err := m.Add(ctx, req, validRawItems())
		require.NoError(t, err)
	}

	pending, err := m.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, "PQ-1", pending[0].ID)
	assert.Equal(t, "PQ-2", pending[1].ID)
	assert.Equal(t, "PQ-3", pending[2].ID)
}

func TestListPendingIncludesEscalated(t *testing.T) {
	m := newTestModule()
	ctx := context.Background()

	_, _, err := m.Add(ctx, newReceived(t, "PQ-1"), validRawItems())
	require.NoError(t, err)
	_, _, err = m.Add(ctx, newReceived(t, "PQ-2"), validRawItems())
	require.NoError(t, err)

	_, err = m.UpdateState(ctx, "PQ-1", etrequest.StateEscalated, "needs director")
	require.NoError(t, err)

	pending, err := m.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestUpdateStateInvalidTransition(t *testing.T) {
	m := newTestModule()
	ctx := context.Background()

	_, _, err := m.Add(ctx, newReceived(t, "PQ-1"), validRawItems())
	require.NoError(t, err)

	// pending_approval -> committed 非法
	_, err = m.UpdateState(ctx, "PQ-1", etrequest.StateCommitted, "skip approval")
	assert.ErrorIs(t, err, errorx.ErrInvalidTransition)

	// 失败不落库
	got, err := m.Get(ctx, "PQ-1")
	require.NoError(t, err)
	assert.Equal(t, etrequest.StatePendingApproval, got.State)
}

func TestRevertApproval(t *testing.T) {
	m := newTestModule()
	ctx := context.Background()

	_, _, err := m.Add(ctx, newReceived(t, "PQ-1"), validRawItems())
	require.NoError(t, err)

	_, err = m.UpdateState(ctx, "PQ-1", etrequest.StateApproved, "approved")
	require.NoError(t, err)

	reverted, err := m.RevertApproval(ctx, "PQ-1", "commit failed")
	require.NoError(t, err)
	assert.Equal(t, etrequest.StatePendingApproval, reverted.State)

	// 非 approved 状态回滚报错
	_, err = m.RevertApproval(ctx, "PQ-1", "again")
	assert.ErrorIs(t, err, errorx.ErrInvalidTransition)
}

func TestRemoveOnlyTerminal(t *testing.T) {
	m := newTestModule()
	ctx := context.Background()

	_, _, err := m.Add(ctx, newReceived(t, "PQ-1"), validRawItems())
	require.NoError(t, err)

	err = m.Remove(ctx, "PQ-1")
	assert.ErrorIs(t, err, errorx.ErrRequestNotTerminal)

	_, err = m.UpdateState(ctx, "PQ-1", etrequest.StateRejected, "declined")
	require.NoError(t, err)

	require.NoError(t, m.Remove(ctx, "PQ-1"))

	_, err = m.Get(ctx, "PQ-1")
	assert.ErrorIs(t, err, errorx.ErrNotFound)
}

func TestRemoveReleasesLock(t *testing.T) {
	m := newTestModule()
	ctx := context.Background()

	_, _, err := m.Add(ctx, newReceived(t, "PQ-1"), validRawItems())
	require.NoError(t, err)
	_, _, err = m.Add(ctx, newReceived(t, "PQ-2"), validRawItems())
	require.NoError(t, err)
	assert.Equal(t, 2, m.locks.size())

	_, err = m.UpdateState(ctx, "PQ-1", etrequest.StateRejected, "declined")
	require.NoError(t, err)
	require.NoError(t, m.Remove(ctx, "PQ-1"))

	// 移除后锁表不保留该 ID
	assert.Equal(t, 1, m.locks.size())
}

func TestStatusCounts(t *testing.T) {
	m := newTestModule()
	ctx := context.Background()

	_, _, err := m.Add(ctx, newReceived(t, "PQ-1"), validRawItems())
	require.NoError(t, err)
	_, _, err = m.Add(ctx, newReceived(t, "PQ-2"), nil) // rejected
	require.NoError(t, err)

	counts, err := m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[etrequest.StatePendingApproval])
	assert.Equal(t, int64(1), counts[etrequest.StateRejected])
}
