package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nao1215/tokengate/pkg/middleware"
)

// shutdownTimeout はグレースフルシャットダウンの待機上限。
const shutdownTimeout = 10 * time.Second

// Server はゲートウェイのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// gateway はリクエストの振り分けとトークン処理を行う。
	gateway *Gateway
}

// NewServer は新しいゲートウェイサーバーを生成する。
func NewServer(port string, gw *Gateway) *Server {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	s := &Server{
		router:  router,
		port:    port,
		gateway: gw,
	}
	s.setupRoutes()

	return s
}

// Handler はサーバーのhttp.Handlerを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxがキャンセルされるとグレースフルに停止する。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}
	return nil
}

// setupRoutes はルーティングを設定する。
// 振り分けの方針はGateway.Handleが一元的に持つため、Ginのルートは登録せず
// すべてのメソッド・パスをNoRouteで受けてGatewayに渡す。
func (s *Server) setupRoutes() {
	s.router.NoRoute(s.handleInvoke())
}

// handleInvoke はHTTPリクエストをGatewayのRequestに変換して処理するハンドラを返す。
func (s *Server) handleInvoke() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("リクエストボディの読み取りに失敗")
			c.Status(http.StatusBadRequest)
			c.Writer.WriteHeaderNow()
			return
		}

		resp := s.gateway.Handle(c.Request.Context(), Request{
			Method:  c.Request.Method,
			Path:    c.Request.URL.Path,
			Headers: flattenHeader(c.Request.Header),
			Body:    string(body),
		})

		if resp.Body == "" {
			// NoRouteハンドラで書き込みが無いとGinが既定の404ボディを書くため、ヘッダーを確定させる
			c.Status(resp.StatusCode)
			c.Writer.WriteHeaderNow()
			return
		}
		c.Data(resp.StatusCode, "application/json; charset=utf-8", []byte(resp.Body))
	}
}

// flattenHeader はhttp.Headerを単一値のマップに変換する。
// 同じヘッダーが複数ある場合は最後の値を使う。
func flattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if len(values) == 0 {
			continue
		}
		out[name] = values[len(values)-1]
	}
	return out
}
