package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Satyam78612/fluxor/internal/catalog"
	"github.com/Satyam78612/fluxor/internal/server"
	"github.com/Satyam78612/fluxor/internal/services"
	"github.com/Satyam78612/fluxor/pkg/api"
	"github.com/Satyam78612/fluxor/pkg/config"
	"github.com/Satyam78612/fluxor/pkg/favstore"
	"github.com/Satyam78612/fluxor/pkg/logger"
	"github.com/Satyam78612/fluxor/pkg/shutdown"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（支持 .yaml, .yml, .json）")
	flag.Parse()

	// .env 可选，用于本地开发时注入 API Key 等
	_ = godotenv.Load()

	if *configPath != "" {
		config.SetConfigPath(*configPath)
	} else if _, err := os.Stat("config.yaml"); err == nil {
		config.SetConfigPath("config.yaml")
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputFile: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}); err != nil {
		panic(fmt.Sprintf("初始化日志失败: %v", err))
	}

	logrus.Info("Fluxor 市场数据服务启动中...")

	sd := shutdown.NewManager()

	// 收藏持久化
	store, err := favstore.Open(cfg.DataDir)
	if err != nil {
		logger.Errorf("打开收藏存储失败: %v", err)
		os.Exit(1)
	}
	sd.Register("favstore", func(ctx context.Context) error { return store.Close() })

	// 目录 + 基础列表
	cat := catalog.New(store)
	tokens, err := catalog.LoadBaseList(cfg.Market.CatalogFile)
	if err != nil {
		logger.Errorf("读取基础代币列表失败: %v", err)
		store.Close()
		os.Exit(1)
	}
	cat.Load(tokens)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 派生视图物化器
	views := catalog.NewViews(cat)
	views.Start(ctx)
	sd.Register("views", func(ctx context.Context) error { views.Stop(); return nil })

	// 周期同步服务
	priceSync := services.NewPriceSync(api.NewClient(cfg.Backend.BaseURL), cat, cfg.Market.RefreshInterval)
	priceSync.Start(ctx)
	sd.Register("price-sync", func(ctx context.Context) error { priceSync.Stop(); return nil })

	metricsSync := services.NewMetricsSync(
		api.NewClient(cfg.Backend.FearGreedURL),
		api.NewClient(cfg.Backend.CMCBaseURL),
		cfg.Backend.CMCAPIKey,
		cfg.Market.MetricsInterval,
	)
	metricsSync.Start(ctx)
	sd.Register("metrics-sync", func(ctx context.Context) error { metricsSync.Stop(); return nil })

	// 地址搜索解析器
	resolver := services.NewSearchResolver(api.NewClient(cfg.Backend.BaseURL), cat, cfg.Market.SearchDebounce)
	sd.Register("search", func(ctx context.Context) error { resolver.Stop(); return nil })

	// HTTP API
	srv := server.New(cat, views, metricsSync, resolver)
	srv.Start(cfg.ListenAddr)
	sd.Register("http", srv.Shutdown)

	// 等待退出信号
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Infof("收到信号 %v，开始优雅关闭...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	sd.Run(shutdownCtx)

	logger.Info("Fluxor 市场数据服务已退出")
}
