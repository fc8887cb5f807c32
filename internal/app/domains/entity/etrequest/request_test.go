package etrequest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/errorx"
)

func TestNewPurchaseRequest(t *testing.T) {
	req, err := NewPurchaseRequest("PQ-1", "Acme", []LineItem{
		{ItemCode: "A", Quantity: 2, UnitPrice: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, StateReceived, req.State)
	assert.Equal(t, 6.0, req.TotalAmount)

	_, err = NewPurchaseRequest("", "Acme", nil)
	assert.ErrorIs(t, err, ErrInvalidRequestID)
}

func TestTransitionGraph(t *testing.T) {
	cases := []struct {
		from, to State
		allowed  bool
	}{
		{StateReceived, StateValidating, true},
		{StateValidating, StateRejected, true},
		{StateValidating, StatePendingApproval, true},
		{StatePendingApproval, StateApproved, true},
		{StatePendingApproval, StateEscalated, true},
		{StatePendingApproval, StateRejected, true},
		{StateEscalated, StateApproved, true},
		{StateEscalated, StateRejected, true},
		{StateApproved, StateCommitted, true},

		{StateReceived, StateApproved, false},
		{StateValidating, StateCommitted, false},
		{StatePendingApproval, StateCommitted, false},
		{StateApproved, StatePendingApproval, false},
		{StateRejected, StatePendingApproval, false},
		{StateCommitted, StateApproved, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransitionTo(c.to),
			"%s -> %s", c.from, c.to)
	}
}

func TestTransitionToRejectsInvalid(t *testing.T) {
	req, err := NewPurchaseRequest("PQ-1", "Acme", nil)
	require.NoError(t, err)

	err = req.TransitionTo(StateApproved)
	assert.ErrorIs(t, err, errorx.ErrInvalidTransition)
	// 失败不改变状态
	assert.Equal(t, StateReceived, req.State)

	require.NoError(t, req.TransitionTo(StateValidating))
	require.NoError(t, req.TransitionTo(StatePendingApproval))
	assert.Equal(t, StatePendingApproval, req.State)
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, StateRejected.IsTerminal())
	assert.True(t, StateCommitted.IsTerminal())
	assert.False(t, StateApproved.IsTerminal())
	assert.False(t, StatePendingApproval.IsTerminal())

	assert.True(t, StatePendingApproval.IsAwaitable())
	assert.True(t, StateEscalated.IsAwaitable())
	assert.False(t, StateApproved.IsAwaitable())
}

func TestRevertApproval(t *testing.T) {
	req, err := NewPurchaseRequest("PQ-1", "Acme", nil)
	require.NoError(t, err)
	require.NoError(t, req.TransitionTo(StateValidating))
	require.NoError(t, req.TransitionTo(StatePendingApproval))
	require.NoError(t, req.TransitionTo(StateApproved))

	require.NoError(t, req.RevertApproval())
	assert.Equal(t, StatePendingApproval, req.State)

	// 回滚后允许再次 approve
	require.NoError(t, req.TransitionTo(StateApproved))

	// 非 approved 状态不允许回滚
	require.NoError(t, req.TransitionTo(StateCommitted))
	assert.ErrorIs(t, req.RevertApproval(), errorx.ErrInvalidTransition)
}

func TestRecomputeTotal(t *testing.T) {
	req, err := NewPurchaseRequest("PQ-1", "Acme", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, req.TotalAmount)

	req.SetItems([]LineItem{
		{ItemCode: "A", Quantity: 2, UnitPrice: 10},
		{ItemCode: "B", Quantity: 1.5, UnitPrice: 4},
	})
	assert.Equal(t, 26.0, req.TotalAmount)
}

func TestAppendNote(t *testing.T) {
	req, err := NewPurchaseRequest("PQ-1", "Acme", nil)
	require.NoError(t, err)

	req.AppendNote("first")
	req.AppendNote("")
	req.AppendNote("second")

	require.Len(t, req.DecisionNotes, 2)
	assert.Contains(t, req.DecisionNotes[0], "first")
	assert.Contains(t, req.DecisionNotes[1], "second")
}

func TestParseUrgency(t *testing.T) {
	u, ok := ParseUrgency("")
	assert.True(t, ok)
	assert.Equal(t, UrgencyNormal, u)

	u, ok = ParseUrgency("critical")
	assert.True(t, ok)
	assert.Equal(t, UrgencyCritical, u)

	_, ok = ParseUrgency("asap")
	assert.False(t, ok)
}
