package repository

import (
	"context"
	"errors"

	"github.com/SubashG45/Task-Management/internal/domain/entity"
)

// ErrNotFound is returned by scoped lookups when no record matches. It is the
// same value whether the record is missing or owned by someone else.
var ErrNotFound = errors.New("not found")

// TaskFilter carries the optional list predicates. A nil pointer means the
// dimension is unconstrained. The owner is deliberately not part of the
// filter: every repository operation takes it as a separate, mandatory
// parameter so it can never be widened or dropped by caller input.
type TaskFilter struct {
	Completed *bool  // derived from the status query param
	Priority  string // empty means any
	Search    string // case-insensitive match on title or description
}

// TaskRepository defines the owner-scoped task store operations. Update and
// Delete report ErrNotFound both when the task does not exist and when it
// belongs to a different user; callers cannot tell the two apart.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	// List returns the owner's tasks matching the filter, ordered by due
	// date ascending with tasks without a due date first, ties broken by
	// created_at then id.
	List(ctx context.Context, userID string, f TaskFilter) ([]entity.Task, error)
	GetByID(ctx context.Context, userID, id string) (*entity.Task, error)
	Update(ctx context.Context, userID string, t *entity.Task) error
	Delete(ctx context.Context, userID, id string) error
}
