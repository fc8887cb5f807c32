package gateway

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"
)

// DocumentRenderer 采购订单文档生成协作方
// PDF/LaTeX 排版由外部服务实现，这里只定义接缝
type DocumentRenderer interface {
	Render(ctx context.Context, req *etrequest.PurchaseRequest) (path string, err error)
}

// TextRenderer 明文文档生成实现
// 将 PO 渲染为纯文本写入 spool 目录，供外部排版服务接管
type TextRenderer struct {
	dir string
}

// NewTextRenderer 创建明文文档生成器
func NewTextRenderer(dir string) (*TextRenderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create spool dir failed: %w", err)
	}
	return &TextRenderer{dir: dir}, nil
}

// Render 渲染采购订单文档
func (r *TextRenderer) Render(ctx context.Context, req *etrequest.PurchaseRequest) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "PURCHASE ORDER\n")
	fmt.Fprintf(&b, "Request ID: %s\n", req.ID)
	fmt.Fprintf(&b, "Supplier:   %s\n", req.SupplierName)
	fmt.Fprintf(&b, "Date:       %s\n\n", time.Now().Format("2006-01-02"))

	fmt.Fprintf(&b, "%-12s %-30s %10s %12s %6s %10s\n",
		"CODE", "DESCRIPTION", "QTY", "UNIT PRICE", "UOM", "TOTAL")
	for _, item := range req.Items {
		fmt.Fprintf(&b, "%-12s %-30s %10.2f %12.2f %6s %10.2f\n",
			item.ItemCode, item.Description, item.Quantity, item.UnitPrice, item.UOM, item.LineTotal())
	}
	fmt.Fprintf(&b, "\nTOTAL AMOUNT: %.2f\n", req.TotalAmount)

	path := filepath.Join(r.dir, fmt.Sprintf("%s.txt", req.ID))
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write po document failed: %w", err)
	}

	return path, nil
}
