package handler

import (
	"runtime/debug"
	"time"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

const (
	requestIDKey    = "request-id"
	requestIDHeader = "X-Request-ID"
	unmatchedRoute  = "unmatched"
)

// RequestObserver はリクエスト 1 件ごとの結果を受け取ります。
type RequestObserver interface {
	ObserveRequest(method, path string, status int, elapsed time.Duration)
}

// RecoveryMiddleware は panic を回収して 500 を返します。
func RecoveryMiddleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		defer func() {
			if rvr := recover(); rvr != nil {
				log.Error().
					Interface("panic", rvr).
					Str("request_id", requestID(ctx)).
					Str("method", string(ctx.Method())).
					Str("url", ctx.URI().String()).
					Str("remote_addr", ctx.RemoteAddr().String()).
					Str("stack_trace", string(debug.Stack())).
					Msg("Recovered from panic")

				ctx.Response.Reset()
				writeJSON(ctx, fasthttp.StatusInternalServerError, errorResponse{
					Error:   internalServerError,
					Details: "panic",
				})
			}
		}()

		next(ctx)
	}
}

// LoggingMiddleware はリクエスト ID を採番し、完了したリクエストを記録します。
func LoggingMiddleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id := string(ctx.Request.Header.Peek(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		ctx.SetUserValue(requestIDKey, id)
		ctx.Response.Header.Set(requestIDHeader, id)

		begin := time.Now()
		next(ctx)

		log.Info().
			Str("request_id", id).
			Bytes("method", ctx.Method()).
			Str("url", ctx.URI().String()).
			Int("status", ctx.Response.StatusCode()).
			Dur("latency", time.Since(begin)).
			Msg("Completed request")
	}
}

// MetricsMiddleware はマッチしたルート単位でリクエストを observer に通知します。
func MetricsMiddleware(observer RequestObserver) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		if observer == nil {
			return next
		}
		return func(ctx *fasthttp.RequestCtx) {
			begin := time.Now()
			next(ctx)

			path, ok := ctx.UserValue(router.MatchedRoutePathParam).(string)
			if !ok || path == "" {
				path = unmatchedRoute
			}
			observer.ObserveRequest(string(ctx.Method()), path, ctx.Response.StatusCode(), time.Since(begin))
		}
	}
}

// CORS は全レスポンスに CORS ヘッダーを付与し、プリフライトには 204 を返します。
func CORS(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
		ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS,PATCH")
		ctx.Response.Header.Set("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept")

		if ctx.IsOptions() {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		next(ctx)
	}
}

func requestID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue(requestIDKey).(string)
	return id
}
