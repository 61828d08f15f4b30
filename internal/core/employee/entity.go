package employee

// Role は社員の役職を表します。
type Role string

const (
	RoleCEO     Role = "CEO"
	RoleVP      Role = "VP"
	RoleManager Role = "MANAGER"
	RoleLackey  Role = "LACKEY"
)

// Employee は社員エンティティです。
type Employee struct {
	ID            string `json:"_id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	HireDate      string `json:"hireDate"`
	Role          Role   `json:"role"`
	FavoriteJoke  string `json:"favoriteJoke"`
	FavoriteQuote string `json:"favoriteQuote"`
}

// Payload は作成・更新リクエストで受け取る社員フィールドです。
// 型が合わないフィールドや欠落したフィールドは nil のまま残ります。
type Payload struct {
	FirstName     *string
	LastName      *string
	HireDate      *string
	Role          *string
	FavoriteJoke  *string
	FavoriteQuote *string
}

// UpdateResult は更新に使用したフィールドです。更新後に読み直した値ではありません。
type UpdateResult struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	HireDate      string `json:"hireDate"`
	Role          Role   `json:"role"`
	FavoriteJoke  string `json:"favoriteJoke"`
	FavoriteQuote string `json:"favoriteQuote"`
}

// Roles は許可された役職の一覧です。
func Roles() []Role {
	return []Role{RoleCEO, RoleVP, RoleManager, RoleLackey}
}

func (p *Payload) toEmployee() *Employee {
	return &Employee{
		FirstName:     deref(p.FirstName),
		LastName:      deref(p.LastName),
		HireDate:      deref(p.HireDate),
		Role:          Role(deref(p.Role)),
		FavoriteJoke:  deref(p.FavoriteJoke),
		FavoriteQuote: deref(p.FavoriteQuote),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
