// Package server 以 HTTP 提供重绘接口：每次请求按查询参数重新求解并输出曲线
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reliability"
	"reliability/config"
	"reliability/debug"
	"reliability/logger"
	"reliability/types"
)

const shutdownTimeout = 5 * time.Second

// Server 重绘服务
type Server struct {
	base    *config.Config
	session reliability.Session
	engine  *gin.Engine
}

// New 创建服务；base 为查询参数之外的默认配置
func New(base *config.Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{base: base.Clone(), engine: gin.New()}
	s.engine.Use(gin.Recovery(), accessLog)
	s.engine.GET("/", s.charts)
	s.engine.GET("/data.json", s.data)
	s.engine.GET("/plot/:format", s.plot)
	s.engine.GET("/parameters", s.parameters)
	return s
}

// Handler HTTP 处理器
func (s *Server) Handler() http.Handler { return s.engine }

// Run 监听 base.Listen，ctx 结束时优雅退出
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.base.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof(ctx, "服务监听 http://%s", s.base.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Infof(ctx, "服务关闭")
	return srv.Shutdown(shutdownCtx)
}

// resolve 应用查询参数并求解
func (s *Server) resolve(c *gin.Context) (*debug.Record, error) {
	cfg := s.base.Clone()
	for name, values := range c.Request.URL.Query() {
		if len(values) == 0 {
			continue
		}
		if err := cfg.Set(name, values[len(values)-1]); err != nil {
			return nil, err
		}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	req, err := cfg.Request()
	if err != nil {
		return nil, err
	}
	res, err := s.session.Solve(req)
	if err != nil {
		return nil, err
	}
	return debug.NewRecord(res)
}

// fail 按错误类型返回状态码
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrSuperseded):
		status = http.StatusConflict
	case errors.Is(err, types.ErrNotConverged), errors.Is(err, types.ErrNotConserved):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, config.ErrNotNumber),
		errors.Is(err, config.ErrUnknownParameter),
		errors.Is(err, types.ErrInvalidInput),
		errors.Is(err, types.ErrUnknownModel),
		errors.Is(err, types.ErrInvalidRate),
		errors.Is(err, types.ErrInvalidSpan),
		errors.Is(err, types.ErrStateIndex):
		status = http.StatusBadRequest
	}
	logger.WarnKV(c.Request.Context(), "求解请求失败", "path", c.Request.URL.Path, "status", status, "error", err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// render 先写入缓冲区，失败时仍能返回错误状态
func render(c *gin.Context, contentType string, r debug.Renderer) {
	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (s *Server) charts(c *gin.Context) {
	rec, err := s.resolve(c)
	if err != nil {
		fail(c, err)
		return
	}
	render(c, "text/html; charset=utf-8", debug.NewCharts(rec))
}

func (s *Server) data(c *gin.Context) {
	rec, err := s.resolve(c)
	if err != nil {
		fail(c, err)
		return
	}
	render(c, "application/json", rec)
}

func (s *Server) plot(c *gin.Context) {
	format := c.Param("format")
	contentType, ok := debug.ContentType(format)
	if !ok {
		fail(c, fmt.Errorf("%w: 图片格式 %q", types.ErrInvalidInput, format))
		return
	}
	rec, err := s.resolve(c)
	if err != nil {
		fail(c, err)
		return
	}
	p := debug.NewPlot(rec)
	p.Format = format
	render(c, contentType, p)
}

func (s *Server) parameters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"parameters": s.base.Parameters()})
}

// accessLog 请求日志
func accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	logger.InfoKV(c.Request.Context(), "http",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"query", c.Request.URL.RawQuery,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
	)
}
