package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"
)

// JokeClient は icanhazdadjoke 互換 API からジョークを取得します。
type JokeClient struct {
	client *fasthttp.Client
	url    string
}

// NewJokeClient は JokeClient を生成します。
func NewJokeClient(client *fasthttp.Client, url string) *JokeClient {
	if client == nil {
		client = NewHTTPClient()
	}
	return &JokeClient{client: client, url: url}
}

type jokeResponse struct {
	Joke string `json:"joke"`
}

// FetchJoke は応答の joke フィールドを返します。
func (c *JokeClient) FetchJoke(ctx context.Context) (string, error) {
	body, err := getJSON(ctx, c.client, c.url)
	if err != nil {
		return "", err
	}

	var resp jokeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode joke: %w", err)
	}
	if strings.TrimSpace(resp.Joke) == "" {
		return "", fmt.Errorf("%w: joke", ErrEmptyResult)
	}
	return resp.Joke, nil
}
