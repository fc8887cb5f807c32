package gateway

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"
)

func TestTextRendererRender(t *testing.T) {
	dir := t.TempDir()
	r, err := NewTextRenderer(dir)
	require.NoError(t, err)

	req, err := etrequest.NewPurchaseRequest("PQ-1", "Acme", []etrequest.LineItem{
		{ItemCode: "SKU-1", Description: "bolts", Quantity: 2, UnitPrice: 5, UOM: "box"},
	})
	require.NoError(t, err)

	path, err := r.Render(context.Background(), req)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "PURCHASE ORDER")
	assert.Contains(t, text, "Acme")
	assert.Contains(t, text, "SKU-1")
	assert.Contains(t, text, "TOTAL AMOUNT: 10.00")
}
