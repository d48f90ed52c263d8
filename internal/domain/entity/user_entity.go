package entity

import (
	"strings"
	"time"
)

// User is the owner of work entries. Users are never hard-deleted.
type User struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func NewUser(id, name string, now time.Time) *User {
	return &User{
		ID:        id,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (u *User) Rename(name string, now time.Time) {
	u.Name = strings.TrimSpace(name)
	u.UpdatedAt = now
}

// Delete marks the user as deleted.
func (u *User) Delete(now time.Time) {
	u.DeletedAt = &now
	u.UpdatedAt = now
}

func (u *User) IsDeleted() bool { return u.DeletedAt != nil }
