package entity

import (
	"time"
)

// Task priorities and statuses. Status and Completed are two representations
// of the same logical field; every write path keeps Completed equal to
// (Status == StatusCompleted).
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Task is a unit of work owned by exactly one user. UserID is assigned at
// creation from the authenticated identity and never changes afterwards.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ValidPriority reports whether p is one of the three known priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ValidStatus reports whether s is a known task status.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusCompleted
}

// SetStatus updates Status and keeps the legacy Completed mirror in sync.
func (t *Task) SetStatus(status string) {
	t.Status = status
	t.Completed = status == StatusCompleted
}

// SetCompleted updates the legacy Completed flag and keeps Status in sync.
func (t *Task) SetCompleted(completed bool) {
	t.Completed = completed
	if completed {
		t.Status = StatusCompleted
	} else {
		t.Status = StatusPending
	}
}
