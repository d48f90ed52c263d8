package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-worktime/internal/domain/repository"
	"github.com/oksasatya/go-ddd-worktime/pkg/helpers"
)

type UserService struct {
	Users     repo.UserRepository
	Entries   repo.WorkEntryRepository
	IDs       repo.IDGenerator
	Validator CommandValidator
	Logger    *logrus.Logger
	Location  *time.Location
	Now       func() time.Time
}

// UserView is a user with its live work entries and the seconds worked today.
type UserView struct {
	User        *entity.User
	WorkEntries []*entity.WorkEntry
	TotalTime   int64
}

func NewUserService(users repo.UserRepository, entries repo.WorkEntryRepository, ids repo.IDGenerator, validator CommandValidator, logger *logrus.Logger, loc *time.Location) *UserService {
	return &UserService{
		Users:     users,
		Entries:   entries,
		IDs:       ids,
		Validator: validator,
		Logger:    logger,
		Location:  loc,
		Now:       time.Now,
	}
}

func (s *UserService) CreateUser(ctx context.Context, cmd CreateUserCommand) (*entity.User, error) {
	if err := validate(ctx, s.Validator, cmd); err != nil {
		return nil, err
	}
	u := entity.NewUser(s.IDs.Generate(), cmd.Name, s.now())
	if err := s.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user created")
	}
	return u, nil
}

func (s *UserService) GetUsers(ctx context.Context) ([]*entity.User, error) {
	return s.Users.All(ctx)
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*UserView, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.Entries.AllByUserID(ctx, u.ID, false)
	if err != nil {
		return nil, err
	}
	total, err := s.todayWorkSeconds(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &UserView{User: u, WorkEntries: entries, TotalTime: total}, nil
}

// GetTodayWorkHours returns the seconds the user worked during the current
// calendar day. Entries crossing midnight only count their part inside today,
// and an open entry counts up to now.
func (s *UserService) GetTodayWorkHours(ctx context.Context, userID string) (int64, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.todayWorkSeconds(ctx, u.ID)
}

func (s *UserService) todayWorkSeconds(ctx context.Context, userID string) (int64, error) {
	now := s.now()
	from, to := helpers.DayBounds(now, s.Location)
	entries, err := s.Entries.ListOverlapping(ctx, userID, from, to)
	if err != nil {
		return 0, err
	}
	return WorkedSeconds(entries, from, to, now), nil
}

// WorkedSeconds sums the part of each entry that falls inside [from, to].
// Open entries are counted up to now.
func WorkedSeconds(entries []*entity.WorkEntry, from, to, now time.Time) int64 {
	var total int64
	for _, e := range entries {
		start := e.StartDate
		if start.Before(from) {
			start = from
		}
		end := now
		if e.EndDate != nil {
			end = *e.EndDate
		}
		if end.After(to) {
			end = to
		}
		if d := end.Unix() - start.Unix(); d > 0 {
			total += d
		}
	}
	return total
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
