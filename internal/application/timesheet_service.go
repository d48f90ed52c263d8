package application

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-worktime/internal/domain"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-worktime/internal/domain/repository"
	"github.com/oksasatya/go-ddd-worktime/pkg/helpers"
)

// ObjectUploader stores a blob and returns its public URL.
type ObjectUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, body []byte) (string, error)
}

// TimesheetService exports a user's work entries as CSV into object storage.
type TimesheetService struct {
	Users    repo.UserRepository
	Entries  repo.WorkEntryRepository
	Uploader ObjectUploader
	Logger   *logrus.Logger
	Location *time.Location
	Now      func() time.Time
}

func NewTimesheetService(users repo.UserRepository, entries repo.WorkEntryRepository, uploader ObjectUploader, logger *logrus.Logger, loc *time.Location) *TimesheetService {
	return &TimesheetService{Users: users, Entries: entries, Uploader: uploader, Logger: logger, Location: loc, Now: time.Now}
}

// Export writes one row per live entry (id, start, end, seconds) and uploads it
// under timesheets/<userID>/<timestamp>.csv.
func (s *TimesheetService) Export(ctx context.Context, userID string) (string, error) {
	if s.Uploader == nil {
		return "", domain.ErrStorageNotConfigured
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	entries, err := s.Entries.AllByUserID(ctx, u.ID, false)
	if err != nil {
		return "", err
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	body, err := s.renderCSV(entries, now)
	if err != nil {
		return "", fmt.Errorf("application.TimesheetService.Export: %w", err)
	}

	objectPath := path.Join("timesheets", u.ID, now.UTC().Format("20060102T150405Z")+".csv")
	url, err := s.Uploader.Upload(ctx, objectPath, "text/csv", body)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("timesheet upload failed")
		}
		return "", err
	}
	return url, nil
}

func (s *TimesheetService) renderCSV(entries []*entity.WorkEntry, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "start_date", "end_date", "seconds"}); err != nil {
		return nil, err
	}
	for _, e := range entries {
		end := ""
		if e.EndDate != nil {
			end = helpers.FormatDisplay(*e.EndDate, s.Location)
		}
		row := []string{
			e.ID,
			helpers.FormatDisplay(e.StartDate, s.Location),
			end,
			strconv.FormatInt(int64(e.Duration(now).Seconds()), 10),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
