package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Satyam78612/fluxor/internal/catalog"
	"github.com/Satyam78612/fluxor/internal/services"
	"github.com/Satyam78612/fluxor/pkg/api"
	"github.com/Satyam78612/fluxor/pkg/config"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

// 终端价格监控：订阅目录变更事件，实时打印每轮刷新里变化的代币。
func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	interval := flag.Int("interval", 0, "刷新间隔（秒），0 表示使用配置值")
	flag.Parse()

	config.SetConfigPath(*configPath)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	tokens, err := catalog.LoadBaseList(cfg.Market.CatalogFile)
	if err != nil {
		log.Fatalf("读取基础代币列表失败: %v", err)
	}

	cat := catalog.New(nil)
	events := cat.Subscribe()
	cat.Load(tokens)

	refreshInterval := cfg.Market.RefreshInterval
	if *interval > 0 {
		refreshInterval = time.Duration(*interval) * time.Second
	}

	fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("📈 Fluxor 价格监控\n")
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("代币数量: %d\n", cat.Size())
	fmt.Printf("刷新间隔: %s\n", refreshInterval)
	fmt.Printf("后端地址: %s\n", cfg.Backend.BaseURL)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sync := services.NewPriceSync(api.NewClient(cfg.Backend.BaseURL), cat, refreshInterval)
	sync.Start(ctx)
	defer sync.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case sig := <-sigCh:
			fmt.Printf("\n收到信号 %v，退出\n", sig)
			return
		case ev := <-events:
			if ev.Kind != catalog.ChangePrices {
				continue
			}
			ts := time.Now().Format("15:04:05")
			for _, id := range ev.IDs {
				tok, ok := cat.Get(id)
				if !ok {
					continue
				}
				color := colorGreen
				arrow := "▲"
				if tok.ChangePercent < 0 {
					color = colorRed
					arrow = "▼"
				}
				fmt.Printf("[%s] %-8s $%-12.4f %s%s %+.2f%%%s\n",
					ts, tok.Symbol, tok.Price, color, arrow, tok.ChangePercent, colorReset)
			}
		}
	}
}
