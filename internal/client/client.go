// Package client は社員ディレクトリ REST API の型付きクライアントです。
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/ogurasousui/codex-employee-directory/internal/core/employee"
)

const (
	employeesPath  = "/api/employees"
	defaultTimeout = 10 * time.Second
)

// ErrValidation はサーバーが入力を 400 で拒否したことを表します。
var ErrValidation = errors.New("client: validation failed")

// APIError は 2xx 以外の応答です。
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
	Details    string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("client: %d %s: %s", e.StatusCode, e.Message, e.Details)
}

// Is は 400 応答を ErrValidation と同一視します。
func (e *APIError) Is(target error) bool {
	return target == ErrValidation && e.StatusCode == fasthttp.StatusBadRequest
}

// EmployeeInput は作成・更新で送信するフィールドです。
type EmployeeInput struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	HireDate      string `json:"hireDate"`
	Role          string `json:"role"`
	FavoriteJoke  string `json:"favoriteJoke,omitempty"`
	FavoriteQuote string `json:"favoriteQuote,omitempty"`
}

// Client は API サーバーへのリクエストを送ります。
type Client struct {
	baseURL string
	http    *fasthttp.Client
	timeout time.Duration
}

// Option は Client の任意設定です。
type Option func(*Client)

// WithHTTPClient は利用する fasthttp.Client を差し替えます。
func WithHTTPClient(c *fasthttp.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithTimeout はコンテキストに期限がない場合のタイムアウトを設定します。
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

// New は baseURL (例: http://localhost:3000) に対する Client を生成します。
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: base url %q is not an absolute url", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &fasthttp.Client{Name: "employeectl"},
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetEmployees は全社員を取得します。
func (c *Client) GetEmployees(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	if err := c.do(ctx, fasthttp.MethodGet, employeesPath, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []employee.Employee{}
	}
	return out, nil
}

// GetEmployee は社員を取得します。存在しない場合は nil を返します。
func (c *Client) GetEmployee(ctx context.Context, id string) (*employee.Employee, error) {
	var out *employee.Employee
	if err := c.do(ctx, fasthttp.MethodGet, employeePath(id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEmployee は社員を作成し、採番された ID を含むレコードを返します。
func (c *Client) CreateEmployee(ctx context.Context, in EmployeeInput) (*employee.Employee, error) {
	var out employee.Employee
	if err := c.do(ctx, fasthttp.MethodPost, employeesPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEmployee は社員の可変フィールドを置き換えます。
func (c *Client) UpdateEmployee(ctx context.Context, id string, in EmployeeInput) (*employee.UpdateResult, error) {
	var out employee.UpdateResult
	if err := c.do(ctx, fasthttp.MethodPut, employeePath(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEmployee は社員を削除し、削除した ID を返します。存在しない場合は空文字です。
func (c *Client) DeleteEmployee(ctx context.Context, id string) (string, error) {
	var out *string
	if err := c.do(ctx, fasthttp.MethodDelete, employeePath(id), nil, &out); err != nil {
		return "", err
	}
	if out == nil {
		return "", nil
	}
	return *out, nil
}

func employeePath(id string) string {
	return employeesPath + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(b)
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}

	if code := resp.StatusCode(); code < fasthttp.StatusOK || code >= fasthttp.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: code}
		_ = json.Unmarshal(resp.Body(), apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}
	return nil
}
