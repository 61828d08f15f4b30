package employee

import "context"

// Repository は社員永続化の抽象です。
type Repository interface {
	List(ctx context.Context) ([]*Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByRole(ctx context.Context, role Role) ([]*Employee, error)
	Insert(ctx context.Context, employee *Employee) (*Employee, error)
	// Update は id の社員の可変フィールドを置き換えます。該当がなければ ErrEmployeeNotFound を返します。
	Update(ctx context.Context, employee *Employee) error
	// Delete は削除した社員の ID を返します。該当がなければ ErrEmployeeNotFound を返します。
	Delete(ctx context.Context, id string) (string, error)
}
