package handler

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/valyala/fasthttp"

	"github.com/ogurasousui/codex-employee-directory/internal/core/employee"
)

const formContentType = "application/x-www-form-urlencoded"

const (
	fieldFirstName     = "firstName"
	fieldLastName      = "lastName"
	fieldHireDate      = "hireDate"
	fieldRole          = "role"
	fieldFavoriteJoke  = "favoriteJoke"
	fieldFavoriteQuote = "favoriteQuote"
)

// decodePayload はリクエストボディを Payload に変換します。
// 空ボディと JSON の null は nil を返します。文字列以外の値を持つフィールドは未指定として扱います。
func decodePayload(ctx *fasthttp.RequestCtx) (*employee.Payload, error) {
	if bytes.HasPrefix(ctx.Request.Header.ContentType(), []byte(formContentType)) {
		return decodeForm(ctx.PostArgs()), nil
	}
	return decodeJSON(ctx.PostBody())
}

func decodeJSON(body []byte) (*employee.Payload, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode employee payload: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	str := func(key string) *string {
		if v, ok := raw[key].(string); ok {
			return &v
		}
		return nil
	}

	return &employee.Payload{
		FirstName:     str(fieldFirstName),
		LastName:      str(fieldLastName),
		HireDate:      str(fieldHireDate),
		Role:          str(fieldRole),
		FavoriteJoke:  str(fieldFavoriteJoke),
		FavoriteQuote: str(fieldFavoriteQuote),
	}, nil
}

func decodeForm(args *fasthttp.Args) *employee.Payload {
	str := func(key string) *string {
		if !args.Has(key) {
			return nil
		}
		v := string(args.Peek(key))
		return &v
	}

	return &employee.Payload{
		FirstName:     str(fieldFirstName),
		LastName:      str(fieldLastName),
		HireDate:      str(fieldHireDate),
		Role:          str(fieldRole),
		FavoriteJoke:  str(fieldFavoriteJoke),
		FavoriteQuote: str(fieldFavoriteQuote),
	}
}
