package listener

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-worktime/internal/application"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/event"
)

// LogCreator is the part of the log service the listener needs.
type LogCreator interface {
	CreateWorkEntryLog(ctx context.Context, cmd application.CreateWorkEntryLogCommand) (*entity.WorkEntryLog, error)
}

// WorkEntryUpdatedListener writes an audit log for every WorkEntryUpdated event.
type WorkEntryUpdatedListener struct {
	Logs   LogCreator
	Logger *logrus.Logger
}

func NewWorkEntryUpdatedListener(logs LogCreator, logger *logrus.Logger) *WorkEntryUpdatedListener {
	return &WorkEntryUpdatedListener{Logs: logs, Logger: logger}
}

func (l *WorkEntryUpdatedListener) Handle(ctx context.Context, e event.Event) error {
	var evt event.WorkEntryUpdated
	switch v := e.(type) {
	case event.WorkEntryUpdated:
		evt = v
	case *event.WorkEntryUpdated:
		evt = *v
	default:
		return fmt.Errorf("listener.WorkEntryUpdatedListener: unexpected event %s", e.Name())
	}

	log, err := l.Logs.CreateWorkEntryLog(ctx, application.CreateWorkEntryLogCommand{
		UserID:            evt.UserID,
		WorkEntryID:       evt.WorkEntryID,
		PreviousStartDate: evt.PreviousStartDate,
		PreviousEndDate:   evt.PreviousEndDate,
	})
	if err != nil {
		return err
	}
	if l.Logger != nil {
		l.Logger.WithFields(logrus.Fields{
			"user_id":       evt.UserID,
			"work_entry_id": evt.WorkEntryID,
			"log_id":        log.ID,
		}).Debug("work entry log created")
	}
	return nil
}
