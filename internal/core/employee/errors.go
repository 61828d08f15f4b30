package employee

import "errors"

var (
	ErrValidation       = errors.New("employee: post body error")
	ErrCEOAlreadyExists = errors.New("employee: ceo already exists")
	ErrEmployeeNotFound = errors.New("employee: not found")
)

// ValidationDetails はバリデーション失敗時に返却する固定の説明文です。
const ValidationDetails = "Mandatory fields: firstName, lastName, hireDate (YYYY-MM-DD format earlier than current date), role [CEO (only once), VP, MANAGER, or LACKEY]"
