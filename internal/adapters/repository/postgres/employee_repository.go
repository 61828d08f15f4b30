package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ogurasousui/codex-employee-directory/internal/core/employee"
	pgdb "github.com/ogurasousui/codex-employee-directory/internal/platform/db/postgres"
)

const (
	employeeUniqueViolationCode = "23505"
	employeeCheckViolationCode  = "23514"
	employeeInvalidTextReprCode = "22P02"
	employeeSingleCEOConstraint = "employees_single_ceo"
)

const employeeColumns = `id, first_name, last_name, hire_date, role, favorite_joke, favorite_quote`

const (
	listEmployeesQuery       = `SELECT ` + employeeColumns + ` FROM employees ORDER BY created_at, id`
	findEmployeeByIDQuery    = `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 LIMIT 1`
	findEmployeesByRoleQuery = `SELECT ` + employeeColumns + ` FROM employees WHERE role = $1 ORDER BY created_at, id`
	deleteEmployeeQuery      = `DELETE FROM employees WHERE id = $1 RETURNING id`
)

const insertEmployeeQuery = `
        INSERT INTO employees (id, first_name, last_name, hire_date, role, favorite_joke, favorite_quote)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + employeeColumns

const updateEmployeeQuery = `
        UPDATE employees
           SET first_name = $1,
               last_name = $2,
               hire_date = $3,
               role = $4,
               favorite_joke = $5,
               favorite_quote = $6,
               updated_at = now()
         WHERE id = $7
    `

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// List は全社員を作成順に取得します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	return r.query(ctx, listEmployeesQuery)
}

// FindByRole は役職で社員を検索します。
func (r *EmployeeRepository) FindByRole(ctx context.Context, role employee.Role) ([]*employee.Employee, error) {
	return r.query(ctx, findEmployeesByRoleQuery, string(role))
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, employee.ErrEmployeeNotFound
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := scanEmployee(exec.QueryRow(ctx, findEmployeeByIDQuery, id))
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// Insert は新しい ID を採番して社員を保存します。
func (r *EmployeeRepository) Insert(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, insertEmployeeQuery,
		uuid.NewString(),
		e.FirstName,
		e.LastName,
		e.HireDate,
		string(e.Role),
		e.FavoriteJoke,
		e.FavoriteQuote,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update は社員の可変フィールドを置き換えます。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	if _, err := uuid.Parse(e.ID); err != nil {
		return employee.ErrEmployeeNotFound
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, updateEmployeeQuery,
		e.FirstName,
		e.LastName,
		e.HireDate,
		string(e.Role),
		e.FavoriteJoke,
		e.FavoriteQuote,
		e.ID,
	)
	if err != nil {
		return translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Delete は社員を削除し、削除した ID を返します。
func (r *EmployeeRepository) Delete(ctx context.Context, id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", employee.ErrEmployeeNotFound
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var deleted string
	if err := exec.QueryRow(ctx, deleteEmployeeQuery, id).Scan(&deleted); err != nil {
		return "", translateEmployeePgError(err)
	}
	return deleted, nil
}

func (r *EmployeeRepository) query(ctx context.Context, sql string, args ...any) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		emp  employee.Employee
		role string
	)

	if err := row.Scan(
		&emp.ID,
		&emp.FirstName,
		&emp.LastName,
		&emp.HireDate,
		&role,
		&emp.FavoriteJoke,
		&emp.FavoriteQuote,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	emp.Role = employee.Role(role)
	return &emp, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case employeeUniqueViolationCode:
			if pgErr.ConstraintName == employeeSingleCEOConstraint {
				return employee.ErrCEOAlreadyExists
			}
		case employeeCheckViolationCode:
			return fmt.Errorf("%w: %s", employee.ErrValidation, pgErr.ConstraintName)
		case employeeInvalidTextReprCode:
			return employee.ErrEmployeeNotFound
		}
	}

	return err
}
