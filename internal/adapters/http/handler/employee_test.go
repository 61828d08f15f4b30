package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"github.com/ogurasousui/codex-employee-directory/internal/core/employee"
)

var errStoreDown = errors.New("connection refused")

type failingUseCase struct {
	err error
}

func (f failingUseCase) ListEmployees(context.Context) ([]*employee.Employee, error) {
	return nil, f.err
}

func (f failingUseCase) GetEmployee(context.Context, employee.GetEmployeeInput) (*employee.Employee, error) {
	return nil, f.err
}

func (f failingUseCase) CreateEmployee(context.Context, employee.CreateEmployeeInput) (*employee.Employee, error) {
	return nil, f.err
}

func (f failingUseCase) UpdateEmployee(context.Context, employee.UpdateEmployeeInput) (*employee.UpdateResult, error) {
	return nil, f.err
}

func (f failingUseCase) DeleteEmployee(context.Context, employee.DeleteEmployeeInput) (string, error) {
	return "", f.err
}

func TestEmployeeHandler_StoreErrorsAreHidden(t *testing.T) {
	t.Parallel()

	h := New(Deps{Employees: failingUseCase{err: errStoreDown}})

	tests := []struct {
		method    string
		uri       string
		body      string
		operation string
	}{
		{method: fasthttp.MethodGet, uri: "/api/employees", operation: "list employees"},
		{method: fasthttp.MethodGet, uri: "/api/employees/abc", operation: "get employee"},
		{method: fasthttp.MethodPost, uri: "/api/employees", body: `{}`, operation: "create employee"},
		{method: fasthttp.MethodPut, uri: "/api/employees/abc", body: `{}`, operation: "update employee"},
		{method: fasthttp.MethodDelete, uri: "/api/employees/abc", operation: "delete employee"},
	}

	for _, tt := range tests {
		ctx := newRequestCtx(tt.method, tt.uri)
		if tt.body != "" {
			ctx.Request.Header.SetContentType("application/json")
			ctx.Request.SetBodyString(tt.body)
		}

		h(ctx)

		assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode(), tt.operation)
		assert.JSONEq(t, `{"error":"Internal server error","details":"`+tt.operation+`"}`, string(ctx.Response.Body()), tt.operation)
		assert.NotContains(t, string(ctx.Response.Body()), errStoreDown.Error())
	}
}

func TestEmployeeHandler_ValidationErrorIsBadRequest(t *testing.T) {
	t.Parallel()

	h := New(Deps{Employees: failingUseCase{err: employee.ErrValidation}})

	ctx := newRequestCtx(fasthttp.MethodPost, "/api/employees")
	ctx.Request.Header.SetContentType("application/json")
	ctx.Request.SetBodyString(`{"firstName":"Ron"}`)
	h(ctx)

	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"error":"Post body error","details":"`+employee.ValidationDetails+`"}`, string(ctx.Response.Body()))
}
