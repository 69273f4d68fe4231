package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Satyam78612/fluxor/internal/catalog"
	"github.com/Satyam78612/fluxor/internal/domain"
	"github.com/Satyam78612/fluxor/internal/services"
	"github.com/Satyam78612/fluxor/internal/trade"
	"github.com/Satyam78612/fluxor/pkg/logger"
)

// Server 只读 HTTP 接口：暴露目录、派生视图、情绪指标和搜索状态。
// 唯一的写操作是收藏翻转和搜索输入，两者都走目录/解析器的单写入口。
type Server struct {
	catalog  *catalog.Catalog
	views    *catalog.Views
	metrics  *services.MetricsSync
	resolver *services.SearchResolver

	httpSrv *http.Server
}

// New 创建服务器
func New(cat *catalog.Catalog, views *catalog.Views, metrics *services.MetricsSync, resolver *services.SearchResolver) *Server {
	return &Server{
		catalog:  cat,
		views:    views,
		metrics:  metrics,
		resolver: resolver,
	}
}

// Router 构建路由
func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	api := r.Group("/api")

	tokens := api.Group("/tokens")
	tokens.GET("", s.handleTokensList)
	tokens.GET("/:tokenID", s.handleTokenGet)
	tokens.POST("/:tokenID/favorite", s.handleFavoriteToggle)

	api.GET("/views", s.handleViews)
	api.GET("/metrics", s.handleMetrics)

	api.POST("/search", s.handleSearchInput)
	api.GET("/search", s.handleSearchState)

	api.POST("/quote", s.handleQuote)

	return r
}

// Start 在 addr 上启动 HTTP 服务（非阻塞）
func (s *Server) Start(addr string) {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Infof("HTTP 服务已启动: %s", addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("HTTP 服务异常退出: %v", err)
		}
	}()
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// handleTokensList 列出目录代币，可按分类筛选
func (s *Server) handleTokensList(c *gin.Context) {
	if cat := c.Query("category"); cat != "" {
		// 未知分类和有效但无匹配的分类要区分开：前者 400，后者空列表
		if _, ok := domain.CategorySymbols[domain.Category(cat)]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
			return
		}
		list := s.catalog.ByCategory(domain.Category(cat))
		if list == nil {
			list = []domain.Token{}
		}
		c.JSON(http.StatusOK, gin.H{"tokens": list})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": s.catalog.All()})
}

func (s *Server) handleTokenGet(c *gin.Context) {
	tok, ok := s.catalog.Get(c.Param("tokenID"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "token not found"})
		return
	}
	c.JSON(http.StatusOK, tok)
}

// handleFavoriteToggle 翻转收藏标记（未知 id 返回 404，不改状态）
func (s *Server) handleFavoriteToggle(c *gin.Context) {
	id := c.Param("tokenID")
	if _, ok := s.catalog.Get(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "token not found"})
		return
	}
	s.catalog.ToggleFavorite(id)
	tok, _ := s.catalog.Get(id)
	c.JSON(http.StatusOK, tok)
}

func (s *Server) handleViews(c *gin.Context) {
	v := s.views.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"favorites": v.Favorites,
		"trending":  v.Trending,
		"gainers":   v.Gainers,
		"losers":    v.Losers,
	})
}

func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.metrics.Current())
}

type searchInputRequest struct {
	Text string `json:"text"`
}

// handleSearchInput 提交一次搜索输入（防抖在解析器内部完成）
func (s *Server) handleSearchInput(c *gin.Context) {
	var req searchInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	s.resolver.Input(req.Text)
	c.Status(http.StatusAccepted)
}

// handleSearchState 查询当前搜索状态
func (s *Server) handleSearchState(c *gin.Context) {
	resp := gin.H{"loading": s.resolver.Loading()}
	if tok, ok := s.resolver.Pinned(); ok {
		resp["pinned"] = tok
	}
	c.JSON(http.StatusOK, resp)
}

type quoteRequest struct {
	Side   string  `json:"side" binding:"required"`
	Amount float64 `json:"amount"`
	Price  float64 `json:"price"`
}

// handleQuote 按方向和价格换算数量/总额
func (s *Server) handleQuote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	side := domain.TradeSide(req.Side)
	if !side.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "side must be buy or sell"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"side":   side,
		"result": trade.Quote(side, req.Amount, req.Price),
	})
}
