package service

import (
	"github.com/oksasatya/go-ddd-worktime/internal/domain"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
)

// AccessPolicy decides whether a user may read or change a work entry.
type AccessPolicy interface {
	CanAccess(u *entity.User, w *entity.WorkEntry) error
}

// OwnerPolicy only lets the owner of an entry touch it.
type OwnerPolicy struct{}

func (OwnerPolicy) CanAccess(u *entity.User, w *entity.WorkEntry) error {
	if u == nil || w == nil || u.ID != w.UserID {
		return domain.ErrUnauthorizedAccessToWorkEntry
	}
	return nil
}
