package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/ogurasousui/codex-employee-directory/internal/platform/config"
)

const (
	serverName             = "employee-directory"
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultMaxRequestBytes = 2 << 20 // 2 MiB
)

// Server は HTTP サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	httpServer *fasthttp.Server
}

// New は指定された設定で待ち受ける HTTP サーバーを構築します。
func New(cfg config.ServerConfig, handler fasthttp.RequestHandler) *Server {
	readTimeout := cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = defaultReadTimeout
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = defaultWriteTimeout
	}
	maxBody := cfg.MaxRequestBodySize
	if maxBody == 0 {
		maxBody = defaultMaxRequestBytes
	}

	return &Server{
		listenAddr: cfg.ListenAddr,
		httpServer: &fasthttp.Server{
			Handler:            handler,
			Name:               serverName,
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			MaxRequestBodySize: maxBody,
			Logger:             fasthttpLogger{},
		},
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると Shutdown します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は既存のリスナーで待ち受けます。テストでは任意のリスナーを渡せます。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(lis)
	}()

	log.Info().Str("addr", lis.Addr().String()).Msg("HTTP server listening")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down HTTP server")
		if err := s.httpServer.Shutdown(); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return <-errCh
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	}
}

type fasthttpLogger struct{}

func (fasthttpLogger) Printf(format string, args ...any) {
	log.Warn().Str("component", "fasthttp").Msgf(format, args...)
}
