package service

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-ddd-worktime/internal/domain"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/repository"
)

// WorkEntryDomainService holds the rules that span more than one work entry.
// It is the only place that decides whether a user may open a new entry.
type WorkEntryDomainService struct {
	Entries repository.WorkEntryRepository
	Policy  AccessPolicy
}

func NewWorkEntryDomainService(entries repository.WorkEntryRepository, policy AccessPolicy) *WorkEntryDomainService {
	if policy == nil {
		policy = OwnerPolicy{}
	}
	return &WorkEntryDomainService{Entries: entries, Policy: policy}
}

// ValidateUserCanCreateWorkEntry fails with domain.ErrWorkEntryAlreadyOpen when
// the user still has an open entry.
func (s *WorkEntryDomainService) ValidateUserCanCreateWorkEntry(ctx context.Context, u *entity.User) error {
	open, err := s.Entries.FindOpenByUserID(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("service.WorkEntryDomainService.ValidateUserCanCreateWorkEntry: %w", err)
	}
	if open != nil {
		return domain.ErrWorkEntryAlreadyOpen
	}
	return nil
}

func (s *WorkEntryDomainService) CanAccessWorkEntry(u *entity.User, w *entity.WorkEntry) error {
	return s.Policy.CanAccess(u, w)
}
