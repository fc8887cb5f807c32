package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/infra/gateway"
	redisx "github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/infra/persistence/redis"
	applogger "github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/logger"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/dispatch/business"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/dispatch/config"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/dispatch/domains"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/dispatch/framework"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/dispatch/pkg/lmstfy"
)

// Manager 接口
type Manager interface {
	Start() error
	Shutdown()
}

// ManagerInstance Manager 实例
type ManagerInstance struct {
	ctx             context.Context
	cfg             *config.Config
	lmstfyClient    *lmstfy.Client
	dispatchService *business.DispatchService
	pubsub          *redisx.PubSubClient
	workers         []Worker
	closing         *atomic.Bool
	shutdownCh      chan struct{}
	wg              sync.WaitGroup
	logger          applogger.Logger
}

// NewManagerInstance 创建 Manager
func NewManagerInstance(cfg *config.Config, log applogger.Logger) (Manager, error) {
	ctx := context.Background()

	// 初始化 lmstfy 客户端
	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create lmstfy client: %w", err)
	}

	// 初始化 Redis Pub/Sub（结果推送）
	pubsub, err := redisx.NewPubSubClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis pubsub: %w", err)
	}

	// 初始化下发服务（文档生成 + 邮件）
	renderer, err := gateway.NewTextRenderer(cfg.Dispatch.SpoolDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create document renderer: %w", err)
	}
	mailer := gateway.NewOutboxMailer(log)
	dispatchService := business.NewDispatchService(renderer, mailer, pubsub, cfg.Dispatch.MailTo)

	log.Infof(ctx, "[Manager] Initialized with spool_dir: %s", cfg.Dispatch.SpoolDir)

	return &ManagerInstance{
		ctx:             ctx,
		cfg:             cfg,
		lmstfyClient:    lmstfyClient,
		dispatchService: dispatchService,
		pubsub:          pubsub,
		closing:         atomic.NewBool(false),
		shutdownCh:      make(chan struct{}),
		workers:         make([]Worker, 0),
		logger:          log,
	}, nil
}

// Start 启动 Manager
func (m *ManagerInstance) Start() error {
	m.logger.Infof(m.ctx, "[Manager] Starting...")

	// 1. 加载所有 Worker
	if err := m.loadWorkers(); err != nil {
		return fmt.Errorf("failed to load workers: %w", err)
	}

	m.logger.Infof(m.ctx, "[Manager] All workers loaded, count: %d", len(m.workers))

	// 2. 启动所有 Worker（每个 Worker 在独立 goroutine）
	for _, worker := range m.workers {
		w := worker
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			w.Start()
		}()
		m.logger.Infof(m.ctx, "[Manager] Worker started: %s", w.GetName())
	}

	m.logger.Infof(m.ctx, "[Manager] Start success")

	// 3. 阻塞等待退出信号
	<-m.shutdownCh

	return nil
}

// Shutdown 优雅退出
func (m *ManagerInstance) Shutdown() {
	m.logger.Infof(m.ctx, "[Manager] Began to close")

	// 原子操作，保证并发安全
	if m.closing.CAS(false, true) {
		// 1. 所有 Worker 安全退出
		for _, worker := range m.workers {
			m.logger.Infof(m.ctx, "[Manager] Shutting down worker: %s", worker.GetName())
			worker.Shutdown()
		}

		// 2. 等待所有 Worker 退出
		m.wg.Wait()

		// 3. 释放连接，关闭信号通道
		_ = m.pubsub.Close()
		close(m.shutdownCh)

		m.logger.Infof(m.ctx, "[Manager] Shutdown complete")
	}
}

// loadWorkers 加载所有 Worker
func (m *ManagerInstance) loadWorkers() error {
	for _, workerCfg := range m.cfg.Workers {
		// 创建 Subscriber 配置
		subCfg := &framework.SubscriberConfig{
			QueueName:    workerCfg.QueueName,
			Concurrency:  workerCfg.Subscriber.Threads,
			Rate:         workerCfg.Subscriber.Rate,
			Timeout:      workerCfg.Subscriber.Timeout,
			TTR:          workerCfg.Subscriber.TTR,
			ErrorBackoff: workerCfg.Subscriber.ErrorBackoff,
		}

		// 创建 Processor 配置
		procCfg := &framework.ProcessorConfig{
			Concurrency:  workerCfg.Processor.Threads,
			BufferSize:   workerCfg.Processor.BufferSize,
			Timeout:      workerCfg.Processor.Timeout,
			ReleaseDelay: workerCfg.Processor.ReleaseDelay,
		}

		// 获取 GetProcess 函数
		getProcess := domains.GetProcess(m.logger, m.dispatchService)

		// 创建 Worker 实例
		worker, err := NewWorkerInstance(
			m.ctx,
			workerCfg.Name,
			subCfg,
			procCfg,
			m.lmstfyClient, // MessageSource
			getProcess,     // lmstfyx.Proc
			m.logger,
		)
		if err != nil {
			return fmt.Errorf("failed to create worker %s: %w", workerCfg.Name, err)
		}

		m.workers = append(m.workers, worker)
	}

	return nil
}
