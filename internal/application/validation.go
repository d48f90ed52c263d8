package application

import (
	"context"

	"github.com/oksasatya/go-ddd-worktime/internal/domain"
)

// CommandValidator checks a command struct and returns field messages, or nil when valid.
type CommandValidator interface {
	ValidateStruct(ctx context.Context, cmd any) map[string]string
}

func validate(ctx context.Context, v CommandValidator, cmd any) error {
	if v == nil {
		return nil
	}
	if details := v.ValidateStruct(ctx, cmd); len(details) > 0 {
		return domain.NewValidationError(details)
	}
	return nil
}
