package model

import "time"

// User roles. Everyone starts as a student; becoming an educator is an
// explicit, idempotent role change.
const (
	RoleStudent  = "student"
	RoleEducator = "educator"
)

// User mirrors the identity provider's subject. The id is the provider
// subject claim, so the identity webhook can upsert by primary key.
type User struct {
	UserID          string     `db:"id" json:"user_id"`
	Name            string     `db:"name" json:"name"`
	Email           string     `db:"email" json:"email"`
	AvatarURL       string     `db:"avatar_url" json:"avatar_url"`
	Role            string     `db:"role" json:"role"`
	EnrolledCourses StringList `db:"enrolled_courses" json:"enrolled_courses"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// IsEducator reports whether the user holds the educator role.
func (u *User) IsEducator() bool {
	return u.Role == RoleEducator
}
