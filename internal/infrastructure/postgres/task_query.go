package postgres

import (
	"fmt"
	"strings"

	"github.com/SubashG45/Task-Management/internal/domain/repository"
)

const taskColumns = "id, user_id, title, description, priority, status, completed, due_date, created_at, updated_at"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes the LIKE metacharacters in a search term so it
// matches as a literal substring. Relies on Postgres' default backslash
// escape character.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// taskOrderBy pins the list ordering: due date ascending with undated tasks
// first, ties broken by creation time then id so the order is stable.
const taskOrderBy = " ORDER BY due_date ASC NULLS FIRST, created_at ASC, id ASC"

// BuildListQuery composes the scoped SELECT for one owner's tasks. The owner
// predicate is written unconditionally as $1 and is the only non-optional
// part; each present filter appends one AND clause. The search clause matches
// title or description case-insensitively and is grouped so the OR cannot
// leak past the other predicates.
func BuildListQuery(userID string, f repository.TaskFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT " + taskColumns + " FROM tasks WHERE user_id = $1")
	args := []any{userID}

	if f.Completed != nil {
		args = append(args, *f.Completed)
		fmt.Fprintf(&sb, " AND completed = $%d", len(args))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		fmt.Fprintf(&sb, " AND priority = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		fmt.Fprintf(&sb, " AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	sb.WriteString(taskOrderBy)
	return sb.String(), args
}
