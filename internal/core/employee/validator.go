package employee

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

var hireDatePattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)

// payloadFields は必須フィールドの構造検証に使うビューです。
type payloadFields struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	HireDate  string `validate:"required,hire_date"`
	Role      string `validate:"required,employee_role"`
}

// Validator は作成・更新ペイロードが受け入れ可能かを判定します。
type Validator struct {
	repo     Repository
	clock    Clock
	validate *validator.Validate
}

// NewValidator は Validator を生成します。
func NewValidator(repo Repository, clock Clock) *Validator {
	if clock == nil {
		clock = realClock{}
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterWithValidator(v); err != nil {
		panic(fmt.Sprintf("employee: register validations: %v", err))
	}

	return &Validator{repo: repo, clock: clock, validate: v}
}

// RegisterWithValidator は社員ペイロード用のカスタムバリデーションを登録します。
func RegisterWithValidator(v *validator.Validate) error {
	if err := v.RegisterValidation("hire_date", validateHireDateFormat); err != nil {
		return err
	}
	if err := v.RegisterValidation("employee_role", validateRole); err != nil {
		return err
	}
	return nil
}

// Validate はペイロードの妥当性を返します。
// CEO の存在確認と入社日の範囲チェックは、構造チェックの結果にかかわらず毎回実行されます。
// 更新対象自身が CEO の場合も除外せずに重複とみなします。
func (v *Validator) Validate(ctx context.Context, p *Payload) (bool, error) {
	ceos, err := v.repo.FindByRole(ctx, RoleCEO)
	if err != nil {
		return false, fmt.Errorf("find ceo: %w", err)
	}
	ceoExists := len(ceos) > 0

	var hireDate string
	if p != nil {
		hireDate = deref(p.HireDate)
	}
	dateValid := isValidHireDate(hireDate, v.clock.Now())

	if p == nil {
		return false, nil
	}

	fields := payloadFields{
		FirstName: deref(p.FirstName),
		LastName:  deref(p.LastName),
		HireDate:  hireDate,
		Role:      deref(p.Role),
	}
	if err := v.validate.Struct(fields); err != nil {
		return false, nil
	}

	if Role(fields.Role) == RoleCEO && ceoExists {
		return false, nil
	}

	return dateValid, nil
}

// isValidHireDate は日付形式と、現在時刻より未来でないことを確認します。
// 月末を超える日は翌月へ繰り越して比較します (2021-02-30 は 2021-03-02)。
func isValidHireDate(raw string, now time.Time) bool {
	if !hireDatePattern.MatchString(raw) {
		return false
	}

	year, _ := strconv.Atoi(raw[0:4])
	month, _ := strconv.Atoi(raw[5:7])
	day, _ := strconv.Atoi(raw[8:10])

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return !date.After(now)
}

func isValidRole(role Role) bool {
	switch role {
	case RoleCEO, RoleVP, RoleManager, RoleLackey:
		return true
	default:
		return false
	}
}

func validateHireDateFormat(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	return hireDatePattern.MatchString(fl.Field().String())
}

func validateRole(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	return isValidRole(Role(fl.Field().String()))
}
