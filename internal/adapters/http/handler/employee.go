package handler

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/ogurasousui/codex-employee-directory/internal/core/employee"
)

const (
	employeesPath = "/api/employees"
	employeePath  = "/api/employees/{id}"
)

// EmployeeHandler は社員 REST API の実装です。
type EmployeeHandler struct {
	svc employee.UseCase
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(svc employee.UseCase) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// Register はルーターに社員 API のルートを登録します。
func (h *EmployeeHandler) Register(r *router.Router) {
	r.GET(employeesPath, h.listEmployees)
	r.POST(employeesPath, h.createEmployee)
	r.GET(employeePath, h.getEmployee)
	r.PUT(employeePath, h.updateEmployee)
	r.DELETE(employeePath, h.deleteEmployee)
}

func (h *EmployeeHandler) listEmployees(ctx *fasthttp.RequestCtx) {
	employees, err := h.svc.ListEmployees(ctx)
	if err != nil {
		writeStoreError(ctx, "list employees", err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, employees)
}

func (h *EmployeeHandler) getEmployee(ctx *fasthttp.RequestCtx) {
	found, err := h.svc.GetEmployee(ctx, employee.GetEmployeeInput{ID: pathID(ctx)})
	if err != nil {
		writeStoreError(ctx, "get employee", err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, found)
}

func (h *EmployeeHandler) createEmployee(ctx *fasthttp.RequestCtx) {
	payload, err := decodePayload(ctx)
	if err != nil {
		log.Debug().Err(err).Str("request_id", requestID(ctx)).Msg("rejecting malformed body")
		writeValidationError(ctx)
		return
	}

	created, err := h.svc.CreateEmployee(ctx, employee.CreateEmployeeInput{Payload: payload})
	if err != nil {
		if errors.Is(err, employee.ErrValidation) {
			writeValidationError(ctx)
			return
		}
		writeStoreError(ctx, "create employee", err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, created)
}

func (h *EmployeeHandler) updateEmployee(ctx *fasthttp.RequestCtx) {
	payload, err := decodePayload(ctx)
	if err != nil {
		log.Debug().Err(err).Str("request_id", requestID(ctx)).Msg("rejecting malformed body")
		writeValidationError(ctx)
		return
	}

	updated, err := h.svc.UpdateEmployee(ctx, employee.UpdateEmployeeInput{ID: pathID(ctx), Payload: payload})
	if err != nil {
		if errors.Is(err, employee.ErrValidation) {
			writeValidationError(ctx)
			return
		}
		writeStoreError(ctx, "update employee", err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, updated)
}

func (h *EmployeeHandler) deleteEmployee(ctx *fasthttp.RequestCtx) {
	deleted, err := h.svc.DeleteEmployee(ctx, employee.DeleteEmployeeInput{ID: pathID(ctx)})
	if err != nil {
		writeStoreError(ctx, "delete employee", err)
		return
	}

	if deleted == "" {
		writeJSON(ctx, fasthttp.StatusOK, nil)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, deleted)
}

func pathID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}
