package mddispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/infra/mq/lmstfy"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/infra/persistence/redis"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/common/model"
)

// DispatchModule 下发模块
// 职责：
// 1. 组装 Lmstfy 和 Redis 客户端
// 2. 包含下发相关的业务逻辑（消息格式构造、频道命名规则）
type DispatchModule struct {
	lmstfyClient *lmstfy.Client
	redisClient  *redis.PubSubClient
	queueName    string
}

// NewDispatchModule 创建下发模块实例
func NewDispatchModule(lmstfyClient *lmstfy.Client, redisClient *redis.PubSubClient, queueName string) *DispatchModule {
	return &DispatchModule{
		lmstfyClient: lmstfyClient,
		redisClient:  redisClient,
		queueName:    queueName,
	}
}

// PublishDispatchJob 发布 PO 下发任务到队列
// 消息携带 worker 生成文档所需的全部数据，避免 worker 回查 DB
func (m *DispatchModule) PublishDispatchJob(ctx context.Context, req *etrequest.PurchaseRequest, recordID string) error {
	message := model.PODispatchJob{
		Payload: model.PODispatchPayload{
			Data: model.PODispatchData{
				RequestID:  uuid.New().String(), // 生成请求 ID 用于全链路追踪
				OrgID:      "0",                 // MVP 固定值
				ActionType: model.ActionTypePODispatch,
				ID:         req.ID,
				Data: model.PODispatchBusinessData{
					PurchaseRequestID: req.ID,
					RecordID:          recordID,
					SupplierName:      req.SupplierName,
					Items:             req.Items,
					TotalAmount:       req.TotalAmount,
				},
			},
		},
	}

	return m.lmstfyClient.Publish(ctx, m.queueName, message)
}

// WaitForDispatchResult 等待下发结果（Smart Wait）
// 订阅业务约定频道 dispatch:result:{requestID}，超时返回 error
func (m *DispatchModule) WaitForDispatchResult(ctx context.Context, requestID string, timeout time.Duration) (*model.PODispatchResult, error) {
	channel := redis.DispatchResultChannel(requestID)

	payload, err := m.redisClient.Subscribe(ctx, channel, timeout)
	if err != nil {
		return nil, err
	}

	var result model.PODispatchResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("unmarshal dispatch result failed: %w", err)
	}

	return &result, nil
}
