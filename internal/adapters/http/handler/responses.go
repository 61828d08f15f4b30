package handler

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/ogurasousui/codex-employee-directory/internal/core/employee"
)

const (
	postBodyError       = "Post body error"
	internalServerError = "Internal server error"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func writeJSON(ctx *fasthttp.RequestCtx, statusCode int, body any) {
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.SetStatusCode(statusCode)

	_ = json.NewEncoder(ctx).Encode(body)
}

func writeValidationError(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusBadRequest, errorResponse{
		Error:   postBodyError,
		Details: employee.ValidationDetails,
	})
}

// writeStoreError はストアのエラーをログに残し、詳細を伏せた 500 を返します。
func writeStoreError(ctx *fasthttp.RequestCtx, operation string, err error) {
	log.Error().
		Err(err).
		Str("request_id", requestID(ctx)).
		Str("operation", operation).
		Msg("employee store operation failed")

	writeJSON(ctx, fasthttp.StatusInternalServerError, errorResponse{
		Error:   internalServerError,
		Details: operation,
	})
}
