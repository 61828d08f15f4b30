package handler

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/ogurasousui/codex-employee-directory/internal/core/employee"
)

// Deps は HTTP ハンドラーの依存関係です。
type Deps struct {
	Employees employee.UseCase
	// Observer が nil の場合、リクエストメトリクスは記録しません。
	Observer RequestObserver
	// Metrics が nil の場合、/metrics は登録しません。
	Metrics fasthttp.RequestHandler
}

// New はミドルウェアを適用済みのルートハンドラーを返します。
func New(d Deps) fasthttp.RequestHandler {
	r := router.New()
	r.SaveMatchedRoutePath = true
	r.HandleMethodNotAllowed = false
	r.NotFound = notFound

	employees := NewEmployeeHandler(d.Employees)
	employees.Register(r)

	r.GET("/health", health)
	if d.Metrics != nil {
		r.GET("/metrics", d.Metrics)
	}

	return RecoveryMiddleware(LoggingMiddleware(MetricsMiddleware(d.Observer)(CORS(r.Handler))))
}

type healthResponse struct {
	Status string `json:"status"`
}

func health(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, healthResponse{Status: "ok"})
}

func notFound(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain; charset=utf-8")
	ctx.SetStatusCode(fasthttp.StatusNotFound)
	ctx.SetBodyString("Not found")
}
