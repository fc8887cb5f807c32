package gateway

import (
	"context"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/logger"
)

// OutboundMail 出站邮件
type OutboundMail struct {
	To             string
	Subject        string
	Body           string
	AttachmentPath string
}

// MailGateway 供应商邮件发送协作方
// SMTP 细节由外部服务实现，这里只定义接缝
type MailGateway interface {
	Send(ctx context.Context, mail *OutboundMail) error
}

// OutboxMailer 出站箱实现：记录待发邮件，由外部投递服务接管
type OutboxMailer struct {
	logger logger.Logger
}

// NewOutboxMailer 创建出站箱实例
func NewOutboxMailer(log logger.Logger) *OutboxMailer {
	return &OutboxMailer{logger: log}
}

// Send 记录出站邮件
func (m *OutboxMailer) Send(ctx context.Context, mail *OutboundMail) error {
	m.logger.Infof(ctx, "[OutboxMailer] queued mail: to=%s, subject=%s, attachment=%s",
		mail.To, mail.Subject, mail.AttachmentPath)
	return nil
}
