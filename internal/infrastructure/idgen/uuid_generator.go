package idgen

import (
	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-worktime/internal/domain/repository"
)

// UUIDGenerator issues random (v4) UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() string { return uuid.NewString() }

var _ repository.IDGenerator = UUIDGenerator{}
