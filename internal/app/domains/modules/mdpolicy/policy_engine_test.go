package mdpolicy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/errorx"
)

func testLimits() []PolicyLimit {
	return []PolicyLimit{
		{Threshold: 1000, Level: "auto"},
		{Threshold: 10000, Level: "manager"},
		{Threshold: 100000, Level: "director"},
	}
}

func TestNewEngineConfigErrors(t *testing.T) {
	_, err := NewEngine(nil)
	assert.ErrorIs(t, err, errorx.ErrConfiguration)

	_, err = NewEngine([]PolicyLimit{{Threshold: -1, Level: "auto"}})
	assert.ErrorIs(t, err, errorx.ErrConfiguration)

	_, err = NewEngine([]PolicyLimit{
		{Threshold: 1000, Level: "auto"},
		{Threshold: 1000, Level: "manager"},
	})
	assert.ErrorIs(t, err, errorx.ErrConfiguration)

	_, err = NewEngine([]PolicyLimit{{Threshold: 1000, Level: ""}})
	assert.ErrorIs(t, err, errorx.ErrConfiguration)
}

func TestClassify(t *testing.T) {
	engine, err := NewEngine(testLimits())
	require.NoError(t, err)

	cases := []struct {
		amount float64
		level  string
		auto   bool
	}{
		{0, "auto", true},
		{999.99, "auto", true},
		{1000, "auto", true}, // 边界归入本档
		{1000.01, "manager", false},
		{10000, "manager", false},
		{99999, "director", false},
		{100000, "director", false},
		{100000.01, "director", false}, // 超出全部阈值归最高档且不免审
	}

	for _, c := range cases {
		d := engine.Classify(c.amount)
		assert.Equal(t, c.level, d.Level, "amount=%.2f", c.amount)
		assert.Equal(t, c.auto, d.AutoApproved, "amount=%.2f", c.amount)
	}
}

func TestClassifySingleTier(t *testing.T) {
	engine, err := NewEngine([]PolicyLimit{{Threshold: 500, Level: "auto"}})
	require.NoError(t, err)

	d := engine.Classify(100)
	assert.True(t, d.AutoApproved)

	d = engine.Classify(501)
	assert.Equal(t, "auto", d.Level)
	assert.False(t, d.AutoApproved)
}

func TestLimitsReturnsCopy(t *testing.T) {
	engine, err := NewEngine(testLimits())
	require.NoError(t, err)

	limits := engine.Limits()
	limits[0].Threshold = 99999999

	d := engine.Classify(2000)
	assert.Equal(t, "manager", d.Level)
}
