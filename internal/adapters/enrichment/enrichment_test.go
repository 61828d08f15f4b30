package enrichment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogurasousui/codex-employee-directory/internal/core/employee"
)

var (
	_ employee.JokeFetcher  = (*JokeClient)(nil)
	_ employee.QuoteFetcher = (*QuoteClient)(nil)
)

func newServer(t *testing.T, status int, body string) (*httptest.Server, <-chan http.Header) {
	t.Helper()

	seen := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case seen <- r.Header.Clone():
		default:
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, seen
}

func TestJokeClient_FetchJoke(t *testing.T) {
	t.Parallel()

	srv, headers := newServer(t, http.StatusOK, `{"id":"x","joke":"I used to hate facial hair, but then it grew on me.","status":200}`)

	joke, err := NewJokeClient(nil, srv.URL).FetchJoke(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "I used to hate facial hair, but then it grew on me.", joke)
	assert.Equal(t, "application/json", (<-headers).Get("Accept"))
}

func TestJokeClient_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, wantErr: ErrUnexpectedStatus},
		{name: "empty joke", status: http.StatusOK, body: `{"joke":""}`, wantErr: ErrEmptyResult},
		{name: "malformed body", status: http.StatusOK, body: `<html>`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, _ := newServer(t, tt.status, tt.body)
			_, err := NewJokeClient(nil, srv.URL).FetchJoke(context.Background())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestQuoteClient_FetchQuote(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t, http.StatusOK, `["Never half-ass two things. Whole-ass one thing.","ignored"]`)

	quote, err := NewQuoteClient(nil, srv.URL).FetchQuote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Never half-ass two things. Whole-ass one thing.", quote)
}

func TestQuoteClient_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, body: `[]`, wantErr: ErrUnexpectedStatus},
		{name: "empty array", status: http.StatusOK, body: `[]`, wantErr: ErrEmptyResult},
		{name: "object instead of array", status: http.StatusOK, body: `{"quote":"x"}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, _ := newServer(t, tt.status, tt.body)
			_, err := NewQuoteClient(nil, srv.URL).FetchQuote(context.Background())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestGetJSON_RespectsDeadline(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewJokeClient(nil, srv.URL).FetchJoke(ctx)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGetJSON_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewQuoteClient(nil, "http://127.0.0.1:1").FetchQuote(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
