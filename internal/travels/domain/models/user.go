package models

type User struct {
	ID           int64    `json:"user_id"` //nolint:tagliatelle
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Roles        []string `json:"roles"`
}

type Role struct {
	ID   int64  `json:"role_id"` //nolint:tagliatelle
	Name string `json:"name"`
}

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}

	return false
}
