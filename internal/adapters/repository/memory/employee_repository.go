package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ogurasousui/codex-employee-directory/internal/core/employee"
)

// EmployeeRepository はプロセス内メモリに社員を保持する実装です。
// 開発用途とテスト用途を想定しており、再起動で内容は失われます。
type EmployeeRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*employee.Employee
	newID func() string
}

// NewEmployeeRepository は空の EmployeeRepository を生成します。
func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{
		byID:  make(map[string]*employee.Employee),
		newID: uuid.NewString,
	}
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	employees := make([]*employee.Employee, 0, len(r.order))
	for _, id := range r.order {
		employees = append(employees, clone(r.byID[id]))
	}
	return employees, nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	found, ok := r.byID[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return clone(found), nil
}

func (r *EmployeeRepository) FindByRole(ctx context.Context, role employee.Role) ([]*employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	employees := make([]*employee.Employee, 0)
	for _, id := range r.order {
		if e := r.byID[id]; e.Role == role {
			employees = append(employees, clone(e))
		}
	}
	return employees, nil
}

// Insert は新しい ID を採番して保存します。CEO が既に存在する場合は ErrCEOAlreadyExists を返します。
func (r *EmployeeRepository) Insert(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e.Role == employee.RoleCEO && r.hasCEOExcept("") {
		return nil, employee.ErrCEOAlreadyExists
	}

	stored := clone(e)
	stored.ID = r.newID()
	r.byID[stored.ID] = stored
	r.order = append(r.order, stored.ID)

	return clone(stored), nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[e.ID]; !ok {
		return employee.ErrEmployeeNotFound
	}
	if e.Role == employee.RoleCEO && r.hasCEOExcept(e.ID) {
		return employee.ErrCEOAlreadyExists
	}

	r.byID[e.ID] = clone(e)
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return "", employee.ErrEmployeeNotFound
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return id, nil
}

// hasCEOExcept は mu を保持した状態で呼び出します。
func (r *EmployeeRepository) hasCEOExcept(id string) bool {
	for existingID, e := range r.byID {
		if existingID != id && e.Role == employee.RoleCEO {
			return true
		}
	}
	return false
}

func clone(e *employee.Employee) *employee.Employee {
	copied := *e
	return &copied
}

var _ employee.Repository = (*EmployeeRepository)(nil)
