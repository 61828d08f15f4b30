package employee

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeEmployeeRepo struct {
	employees map[string]*Employee
	sequence  int
	order     []string

	findByRoleCalls int
	findByRoleErr   error
	insertErr       error
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]*Employee)}
}

func (r *fakeEmployeeRepo) List(_ context.Context) ([]*Employee, error) {
	out := make([]*Employee, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneEmployee(r.employees[id]))
	}
	return out, nil
}

func (r *fakeEmployeeRepo) FindByID(_ context.Context, id string) (*Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return cloneEmployee(emp), nil
}

func (r *fakeEmployeeRepo) FindByRole(_ context.Context, role Role) ([]*Employee, error) {
	r.findByRoleCalls++
	if r.findByRoleErr != nil {
		return nil, r.findByRoleErr
	}
	var out []*Employee
	for _, id := range r.order {
		if r.employees[id].Role == role {
			out = append(out, cloneEmployee(r.employees[id]))
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) Insert(_ context.Context, e *Employee) (*Employee, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	clone := cloneEmployee(e)
	r.sequence++
	clone.ID = fmt.Sprintf("emp-%d", r.sequence)
	r.employees[clone.ID] = clone
	r.order = append(r.order, clone.ID)
	return cloneEmployee(clone), nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e *Employee) error {
	if _, ok := r.employees[e.ID]; !ok {
		return ErrEmployeeNotFound
	}
	r.employees[e.ID] = cloneEmployee(e)
	return nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id string) (string, error) {
	if _, ok := r.employees[id]; !ok {
		return "", ErrEmployeeNotFound
	}
	delete(r.employees, id)
	for idx, existingID := range r.order {
		if existingID == id {
			r.order = append(r.order[:idx], r.order[idx+1:]...)
			break
		}
	}
	return id, nil
}

func cloneEmployee(emp *Employee) *Employee {
	if emp == nil {
		return nil
	}
	copy := *emp
	return &copy
}

type stubJokes struct {
	joke string
	err  error
}

func (s stubJokes) FetchJoke(context.Context) (string, error) {
	return s.joke, s.err
}

type stubQuotes struct {
	quote string
	err   error
}

func (s stubQuotes) FetchQuote(context.Context) (string, error) {
	return s.quote, s.err
}

func strPtr(s string) *string {
	return &s
}

func validPayload(role Role) *Payload {
	return &Payload{
		FirstName: strPtr("Ron"),
		LastName:  strPtr("Swanson"),
		HireDate:  strPtr("2020-01-01"),
		Role:      strPtr(string(role)),
	}
}

var fixedNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestService(repo *fakeEmployeeRepo, jokes JokeFetcher, quotes QuoteFetcher) *Service {
	return NewService(repo, NewEnricher(jokes, quotes), &stubClock{now: fixedNow}, nil)
}

func TestService_CreateEmployee_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo, stubJokes{joke: "fetched joke"}, stubQuotes{quote: "fetched quote"})

	created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{Payload: validPayload(RoleVP)})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if created.FavoriteJoke != "fetched joke" || created.FavoriteQuote != "fetched quote" {
		t.Fatalf("expected fetched joke and quote, got %q / %q", created.FavoriteJoke, created.FavoriteQuote)
	}
	if created.Role != RoleVP {
		t.Fatalf("expected role VP, got %s", created.Role)
	}
}

func TestService_CreateEmployee_CallerJokeKeptWhenFetchSucceeds(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo, stubJokes{joke: "fetched joke"}, stubQuotes{quote: "fetched quote"})

	payload := validPayload(RoleManager)
	payload.FavoriteJoke = strPtr("my joke")

	created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{Payload: payload})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	if created.FavoriteJoke != "my joke" {
		t.Fatalf("expected caller joke, got %q", created.FavoriteJoke)
	}
	if created.FavoriteQuote != "fetched quote" {
		t.Fatalf("expected fetched quote, got %q", created.FavoriteQuote)
	}
}

func TestService_CreateEmployee_FallbackOverwritesCallerValues(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo, stubJokes{err: errors.New("boom")}, stubQuotes{err: errors.New("boom")})

	payload := validPayload(RoleLackey)
	payload.FavoriteJoke = strPtr("my joke")
	payload.FavoriteQuote = strPtr("my quote")

	created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{Payload: payload})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	if created.FavoriteJoke != DefaultJoke || created.FavoriteQuote != DefaultQuote {
		t.Fatalf("expected defaults, got %q / %q", created.FavoriteJoke, created.FavoriteQuote)
	}
}

func TestService_CreateEmployee_DuplicateCEO(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo, stubJokes{joke: "j"}, stubQuotes{quote: "q"})

	if _, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{Payload: validPayload(RoleCEO)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{Payload: validPayload(RoleCEO)})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(repo.order) != 1 {
		t.Fatalf("expected a single stored record, got %d", len(repo.order))
	}
}

func TestService_CreateEmployee_StoreConstraintMapsToValidation(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	repo.insertErr = ErrCEOAlreadyExists
	svc := newTestService(repo, stubJokes{joke: "j"}, stubQuotes{quote: "q"})

	_, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{Payload: validPayload(RoleCEO)})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !errors.Is(err, ErrCEOAlreadyExists) {
		t.Fatalf("expected wrapped ErrCEOAlreadyExists, got %v", err)
	}
}

func TestService_CreateEmployee_StoreErrorPassesThrough(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	storeErr := errors.New("connection refused")
	repo.findByRoleErr = storeErr
	svc := newTestService(repo, stubJokes{joke: "j"}, stubQuotes{quote: "q"})

	_, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{Payload: validPayload(RoleVP)})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if errors.Is(err, ErrValidation) {
		t.Fatalf("store error must not be reported as validation error")
	}
}

func TestService_UpdateEmployee_EchoesInputWithoutEnrichment(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo, stubJokes{joke: "fetched joke"}, stubQuotes{quote: "fetched quote"})

	created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{Payload: validPayload(RoleVP)})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	payload := validPayload(RoleManager)
	payload.FirstName = strPtr("Leslie")

	result, err := svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{ID: created.ID, Payload: payload})
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}

	if result.FirstName != "Leslie" || result.Role != RoleManager {
		t.Fatalf("unexpected echo: %+v", result)
	}
	if result.FavoriteJoke != "" || result.FavoriteQuote != "" {
		t.Fatalf("expected omitted joke/quote to become empty, got %q / %q", result.FavoriteJoke, result.FavoriteQuote)
	}

	stored := repo.employees[created.ID]
	if stored.FirstName != "Leslie" || stored.FavoriteJoke != "" {
		t.Fatalf("expected stored record to be replaced, got %+v", stored)
	}
}

func TestService_UpdateEmployee_OwnCEORecordRejected(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo, stubJokes{joke: "j"}, stubQuotes{quote: "q"})

	created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{Payload: validPayload(RoleCEO)})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	_, err = svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{ID: created.ID, Payload: validPayload(RoleCEO)})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestService_UpdateEmployee_MissingIDStillEchoes(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo, stubJokes{joke: "j"}, stubQuotes{quote: "q"})

	result, err := svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{ID: "missing", Payload: validPayload(RoleVP)})
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}
	if result.LastName != "Swanson" {
		t.Fatalf("unexpected echo: %+v", result)
	}
}

func TestService_UpdateEmployee_InvalidPayload(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo, stubJokes{joke: "j"}, stubQuotes{quote: "q"})

	payload := validPayload(RoleVP)
	payload.Role = strPtr("INTERN")

	_, err := svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{ID: "emp-1", Payload: payload})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestService_DeleteEmployee(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo, stubJokes{joke: "j"}, stubQuotes{quote: "q"})

	created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{Payload: validPayload(RoleVP)})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	deleted, err := svc.DeleteEmployee(context.Background(), DeleteEmployeeInput{ID: created.ID})
	if err != nil {
		t.Fatalf("DeleteEmployee returned error: %v", err)
	}
	if deleted != created.ID {
		t.Fatalf("expected deleted id %s, got %s", created.ID, deleted)
	}

	again, err := svc.DeleteEmployee(context.Background(), DeleteEmployeeInput{ID: created.ID})
	if err != nil {
		t.Fatalf("deleting a missing id must not fail: %v", err)
	}
	if again != "" {
		t.Fatalf("expected empty result for missing id, got %q", again)
	}
}

func TestService_GetEmployee_NotFoundReturnsNil(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo, stubJokes{joke: "j"}, stubQuotes{quote: "q"})

	found, err := svc.GetEmployee(context.Background(), GetEmployeeInput{ID: "missing"})
	if err != nil {
		t.Fatalf("GetEmployee returned error: %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil, got %+v", found)
	}
}

func TestService_ListEmployees_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeEmployeeRepo(), stubJokes{}, stubQuotes{})

	employees, err := svc.ListEmployees(context.Background())
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	if employees == nil || len(employees) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", employees)
	}
}
