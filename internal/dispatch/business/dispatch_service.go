package business

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/infra/gateway"
	redisx "github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/infra/persistence/redis"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/common/model"
)

// DispatchInput 下发输入（全部来自消息 payload，不回查 DB）
type DispatchInput struct {
	RequestID         string // 链路追踪 ID
	PurchaseRequestID string
	RecordID          string
	SupplierName      string
	Items             []etrequest.LineItem
	TotalAmount       float64
}

// DispatchService 下发服务（仅负责文档生成和通知，不涉及 DB 操作）
// 职责：生成 PO 文档 → 发送供应商邮件 → 经 Redis 推送结果
type DispatchService struct {
	renderer gateway.DocumentRenderer
	mailer   gateway.MailGateway
	pubsub   *redisx.PubSubClient
	mailTo   string
}

// NewDispatchService 创建下发服务实例
func NewDispatchService(
	renderer gateway.DocumentRenderer,
	mailer gateway.MailGateway,
	pubsub *redisx.PubSubClient,
	mailTo string,
) *DispatchService {
	return &DispatchService{
		renderer: renderer,
		mailer:   mailer,
		pubsub:   pubsub,
		mailTo:   mailTo,
	}
}

// ExecuteDispatch 执行下发并推送结果
// 返回 error 表示整个流程失败（文档生成失败或结果推送失败）
func (s *DispatchService) ExecuteDispatch(ctx context.Context, input *DispatchInput) error {
	// 1. 生成 PO 文档（使用 payload 传入的数据）
	documentPath, dispatchErr := s.dispatch(ctx, input)

	// 2. 构造结果消息
	result := model.PODispatchResult{
		RequestID:         input.RequestID,
		PurchaseRequestID: input.PurchaseRequestID,
		ProcessedAt:       time.Now().Unix(),
	}

	if dispatchErr != nil {
		result.Status = model.DispatchStatusFailed
		result.Error = dispatchErr.Error()
	} else {
		result.Status = model.DispatchStatusSuccess
		result.DocumentPath = documentPath
	}

	// 3. 序列化结果消息为 JSON
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch result: %w", err)
	}

	// 4. 推送结果到专属频道（Smart Wait 订阅侧）
	channel := redisx.DispatchResultChannel(input.PurchaseRequestID)
	if err := s.pubsub.Publish(ctx, channel, string(resultJSON)); err != nil {
		return fmt.Errorf("failed to publish dispatch result: %w", err)
	}

	return dispatchErr
}

// dispatch 文档生成 + 邮件发送
func (s *DispatchService) dispatch(ctx context.Context, input *DispatchInput) (string, error) {
	req := &etrequest.PurchaseRequest{
		ID:           input.PurchaseRequestID,
		SupplierName: input.SupplierName,
		Items:        input.Items,
		TotalAmount:  input.TotalAmount,
	}

	documentPath, err := s.renderer.Render(ctx, req)
	if err != nil {
		return "", fmt.Errorf("render po document failed: %w", err)
	}

	mail := &gateway.OutboundMail{
		To:      s.mailTo,
		Subject: fmt.Sprintf("Purchase Order %s - %s", input.RecordID, input.SupplierName),
		Body: fmt.Sprintf("Purchase order %s for supplier %s, total amount %.2f. See attached document.",
			input.RecordID, input.SupplierName, input.TotalAmount),
		AttachmentPath: documentPath,
	}

	if err := s.mailer.Send(ctx, mail); err != nil {
		return "", fmt.Errorf("send supplier mail failed: %w", err)
	}

	return documentPath, nil
}
