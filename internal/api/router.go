// Package api exposes the analyzer over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/Skufu/diass/internal/analysis"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Options configures NewRouter. DB is optional; readiness reports "disabled"
// when it is nil. TrustedProxies lists the proxy IPs or CIDRs whose
// X-Forwarded-For is believed; when empty the peer address is the client.
type Options struct {
	Analyzer         *analysis.Analyzer
	DB               HealthChecker
	Logger           zerolog.Logger
	StaticRoot       string
	CORSOrigins      []string
	TrustedProxies   []string
	RateLimitRPS     float64
	RateLimitBurst   int
	MaxBodyBytes     int64
	SuggestCacheSize int
}

func NewRouter(opts Options) (*gin.Engine, error) {
	if opts.Analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.SuggestCacheSize <= 0 {
		opts.SuggestCacheSize = 256
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	cache, err := lru.New[string, []analysis.Drug](opts.SuggestCacheSize)
	if err != nil {
		return nil, fmt.Errorf("suggest cache: %w", err)
	}
	m := newMetrics()
	h := &handlers{analyzer: opts.Analyzer, suggestCache: cache, metrics: m}

	router := gin.New()
	if err := router.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(
		requestID(),
		requestLogger(opts.Logger),
		recovery(opts.Logger),
		m.middleware(),
		limitBodySize(opts.MaxBodyBytes),
		cors.New(cors.Config{
			AllowOrigins:  opts.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
			ExposeHeaders: []string{requestIDHeader},
			MaxAge:        12 * time.Hour,
		}),
	)

	if opts.StaticRoot != "" && fileExists(filepath.Join(opts.StaticRoot, "index.html")) {
		router.StaticFS("/static", hiddenFileFilter{gin.Dir(opts.StaticRoot, false)})
		router.StaticFile("/", filepath.Join(opts.StaticRoot, "index.html"))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", readiness(opts.DB))
	router.GET("/metrics", gin.WrapH(m.handler()))

	api := router.Group("/api", rateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
	api.GET("/drugs", h.listDrugs)
	api.GET("/drugs/suggest", h.suggestDrugs)
	api.GET("/drugs/:id", h.getDrug)
	api.GET("/database", h.databaseInfo)
	api.POST("/interactions/analyze", h.analyze)

	router.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, codeNotFound, "route not found", nil)
	})

	return router, nil
}

func readiness(db HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
	}
}

// DetectStaticRoot looks for index.html in the working directory and up to
// two parents.
func DetectStaticRoot() string {
	startDir, err := os.Getwd()
	if err != nil {
		return "."
	}

	candidates := []string{
		startDir,
		filepath.Dir(startDir),
		filepath.Dir(filepath.Dir(startDir)),
	}
	for _, dir := range candidates {
		if fileExists(filepath.Join(dir, "index.html")) {
			return dir
		}
	}
	return startDir
}

// hiddenFileFilter refuses any path with a dot-prefixed segment so files
// such as .env next to the front end are never served.
type hiddenFileFilter struct {
	fs http.FileSystem
}

func (f hiddenFileFilter) Open(name string) (http.File, error) {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return nil, os.ErrNotExist
		}
	}
	return f.fs.Open(name)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
