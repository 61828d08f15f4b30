package enrichment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	userAgent      = "employee-directory"
	defaultTimeout = 3 * time.Second
)

var (
	// ErrUnexpectedStatus は外部 API が 2xx 以外を返したことを表します。
	ErrUnexpectedStatus = errors.New("enrichment: unexpected status")
	// ErrEmptyResult は外部 API の応答に値が含まれていないことを表します。
	ErrEmptyResult = errors.New("enrichment: empty result")
)

// NewHTTPClient は外部 API 呼び出し用の fasthttp.Client を生成します。
func NewHTTPClient() *fasthttp.Client {
	return &fasthttp.Client{
		Name:                userAgent,
		MaxConnsPerHost:     32,
		ReadTimeout:         defaultTimeout,
		WriteTimeout:        defaultTimeout,
		MaxIdleConnDuration: 30 * time.Second,
	}
}

// getJSON は url へ GET を送り、2xx の応答本文を返します。
// ctx の期限がリクエストの期限になり、期限がなければ defaultTimeout を使います。
func getJSON(ctx context.Context, client *fasthttp.Client, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultTimeout)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	if err := client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}

	if code := resp.StatusCode(); code < fasthttp.StatusOK || code >= fasthttp.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: GET %s returned %d", ErrUnexpectedStatus, url, code)
	}

	return append([]byte(nil), resp.Body()...), nil
}
