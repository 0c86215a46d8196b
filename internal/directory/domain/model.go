package domain

// Permission is the secondary authorization level, distinct from the admin
// flag.
type Permission string

const (
	PermissionView Permission = "view"
	PermissionEdit Permission = "edit"
)

// Valid reports whether p is one of the known levels.
func (p Permission) Valid() bool {
	return p == PermissionView || p == PermissionEdit
}

// User is one roster entry as produced by the store's aggregation, which
// joins the identity provider's email onto the profile row.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// UserDetail is a roster entry plus the user's permission level. A missing
// permission record defaults to view.
type UserDetail struct {
	User
	Permission Permission `json:"permission"`
}

// UserPage is one page of the roster. Count is the size of the full
// filtered set, not of the page.
type UserPage struct {
	Users []User `json:"users"`
	Count int    `json:"count"`
}

// UserUpdate is the admin-driven mutation of another user's account.
type UserUpdate struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	IsAdmin    bool       `json:"is_admin"`
	Permission Permission `json:"permission"`
}
