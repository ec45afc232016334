package domain

type User struct {
	ID    string `db:"id" json:"id"`
	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`
	Hash  string `db:"password_hash" json:"-"`
	Role  string `db:"role" json:"role"` // USER | ADMIN
}

// Identity is the authenticated caller passed into every operation that
// needs authorization. It carries the role explicitly instead of being
// re-derived from request attributes downstream.
type Identity struct {
	UserID string
	Role   string
}

func (i Identity) IsAdmin() bool { return i.Role == "ADMIN" }

// Owns reports whether the identity may act on resources of ownerID.
// Admins own everything for read purposes; customer-triggered writes
// still check the concrete owner at the call site.
func (i Identity) Owns(ownerID string) bool {
	return i.UserID != "" && i.UserID == ownerID
}
