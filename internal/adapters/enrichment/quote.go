package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"
)

// QuoteClient は Ron Swanson Quotes 互換 API から名言を取得します。
type QuoteClient struct {
	client *fasthttp.Client
	url    string
}

// NewQuoteClient は QuoteClient を生成します。
func NewQuoteClient(client *fasthttp.Client, url string) *QuoteClient {
	if client == nil {
		client = NewHTTPClient()
	}
	return &QuoteClient{client: client, url: url}
}

// FetchQuote は応答配列の先頭要素を返します。
func (c *QuoteClient) FetchQuote(ctx context.Context) (string, error) {
	body, err := getJSON(ctx, c.client, c.url)
	if err != nil {
		return "", err
	}

	var quotes []string
	if err := json.Unmarshal(body, &quotes); err != nil {
		return "", fmt.Errorf("decode quote: %w", err)
	}
	if len(quotes) == 0 || strings.TrimSpace(quotes[0]) == "" {
		return "", fmt.Errorf("%w: quote", ErrEmptyResult)
	}
	return quotes[0], nil
}
