package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo      Repository
	validator *Validator
	enricher  *Enricher
	tx        TransactionManager
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	ListEmployees(ctx context.Context) ([]*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*UpdateResult, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) (string, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, enricher *Enricher, clock Clock, tx TransactionManager) *Service {
	if enricher == nil {
		enricher = NewEnricher(nil, nil)
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{
		repo:      repo,
		validator: NewValidator(repo, clock),
		enricher:  enricher,
		tx:        tx,
	}
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	Payload *Payload
}

// UpdateEmployeeInput は社員更新時の入力です。
type UpdateEmployeeInput struct {
	ID      string
	Payload *Payload
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	ID string
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// ListEmployees は全社員を取得します。
func (s *Service) ListEmployees(ctx context.Context) ([]*Employee, error) {
	var employees []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}
		employees = found
		return nil
	}); err != nil {
		return nil, err
	}

	if employees == nil {
		employees = []*Employee{}
	}
	return employees, nil
}

// GetEmployee は社員を取得します。該当がない場合は nil を返します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, nil
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return result, nil
}

// CreateEmployee は検証と補完を行ったうえで社員を作成します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	valid, err := s.validator.Validate(ctx, in.Payload)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrValidation
	}

	enriched := s.enricher.Enrich(ctx, *in.Payload)

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Insert(txCtx, enriched.toEmployee())
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		if errors.Is(err, ErrCEOAlreadyExists) {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return nil, err
	}

	return created, nil
}

// UpdateEmployee は可変フィールドをすべて置き換えます。
// 戻り値は更新に使用した値で、ストアから読み直した値ではありません。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*UpdateResult, error) {
	valid, err := s.validator.Validate(ctx, in.Payload)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrValidation
	}

	emp := in.Payload.toEmployee()
	emp.ID = strings.TrimSpace(in.ID)

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, emp); err != nil && !errors.Is(err, ErrEmployeeNotFound) {
			return err
		}
		return nil
	}); err != nil {
		if errors.Is(err, ErrCEOAlreadyExists) {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return nil, err
	}

	return &UpdateResult{
		FirstName:     emp.FirstName,
		LastName:      emp.LastName,
		HireDate:      emp.HireDate,
		Role:          emp.Role,
		FavoriteJoke:  emp.FavoriteJoke,
		FavoriteQuote: emp.FavoriteQuote,
	}, nil
}

// DeleteEmployee は社員を削除し、削除した ID を返します。該当がない場合は空文字を返します。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) (string, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return "", nil
	}

	var deleted string
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Delete(txCtx, id)
		if err != nil {
			return err
		}
		deleted = result
		return nil
	}); err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return "", nil
		}
		return "", err
	}

	return deleted, nil
}
