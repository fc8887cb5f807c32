package main

import (
	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/config"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/modules/mddispatch"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/modules/mdpolicy"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/modules/mdqueue"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/modules/mdvalidate"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/repo/rprecord"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/repo/rprequest"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/services/svlifecycle"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/infra/mq/lmstfy"
	persistence "github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/infra/persistence/entity"
	redisx "github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/infra/persistence/redis"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/logger"
	requesthandler "github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/server/handlers/request"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/server/routers"
)

// App 应用依赖集合
type App struct {
	Engine *gin.Engine
	Logger logger.Logger
}

// InitializeApp 按依赖顺序组装应用
// 1. 基础设施（日志、MySQL、Redis、Lmstfy）
// 2. 仓储层
// 3. 模块层（校验器、策略引擎、队列、下发）
// 4. 服务层（生命周期协调）
// 5. HTTP 层
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	log, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := db.AutoMigrate(&persistence.PurchaseRequest{}, &persistence.PORecord{}); err != nil {
		return nil, nil, err
	}

	redisClient, err := redisx.NewPubSubClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}

	lmstfyClient := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)

	requestRepo := rprequest.NewRequestRepository(db)
	recordStore := rprecord.NewRecordStore(db)

	validator := mdvalidate.NewItemValidator()

	policyEngine, err := mdpolicy.NewEngine(cfg.PolicyLimits())
	if err != nil {
		return nil, nil, err
	}

	queueModule := mdqueue.NewQueueModule(requestRepo, validator)
	dispatchModule := mddispatch.NewDispatchModule(lmstfyClient, redisClient, cfg.Lmstfy.Queue)

	lifecycleService := svlifecycle.NewLifecycleService(
		queueModule,
		validator,
		policyEngine,
		recordStore,
		dispatchModule,
		nil, // 文档抽取协作方按部署环境注入
		cfg.CommitTimeout(),
		log,
	)

	requestHandler := requesthandler.NewRequestHandler(lifecycleService, log)
	engine := routers.SetupRoutes(requestHandler, log)

	cleanup := func() {
		_ = redisClient.Close()
		_ = log.Sync()
	}

	return &App{Engine: engine, Logger: log}, cleanup, nil
}
