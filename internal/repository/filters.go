package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/daniilk04/tracker/pkg/entity"
)

// Sort tokens the task list accepts, mapped to ORDER BY clauses. A leading
// hyphen flips the direction. Anything outside the map falls back to the
// default ordering instead of erroring.
var taskSortColumns = map[string]string{
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
	"priority":    "priority ASC",
	"-priority":   "priority DESC",
	"deadline":    "deadline ASC",
	"-deadline":   "deadline DESC",
}

const (
	defaultTaskOrder  = "created_at DESC"
	defaultHabitOrder = "title ASC"
)

// ParseTaskSort validates a raw sort token against the allow-list.
// Unknown tokens collapse to "" which keeps the default ordering.
func ParseTaskSort(raw string) string {
	if _, ok := taskSortColumns[raw]; ok {
		return raw
	}
	return ""
}

type TaskFilter struct {
	// Case-insensitive substring match on title
	Search string
	// Empty means all statuses
	Status entity.TaskStatus
	// One of the ParseTaskSort tokens, empty keeps newest-first
	Sort string
}

type HabitFilter struct {
	// Case-insensitive substring match on title
	Search string
	// Empty means all frequencies
	Frequency entity.HabitFrequency
	// Nil means both active and inactive habits
	Active *bool
}

// Search terms are literal substrings, so the LIKE metacharacters must not
// pass through. A trailing bare backslash would even break the query.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

const taskColumns = `id, user_id, title, description, status, priority, deadline, slug, created_at`

func buildTaskListQuery(uid uuid.UUID, f TaskFilter, limit, offset int) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`)
	args := []any{uid}
	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		fmt.Fprintf(&sb, ` AND title ILIKE $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		fmt.Fprintf(&sb, ` AND status = $%d`, len(args))
	}
	order, ok := taskSortColumns[f.Sort]
	if !ok {
		order = defaultTaskOrder
	}
	sb.WriteString(` ORDER BY ` + order)
	args = append(args, limit, offset)
	fmt.Fprintf(&sb, ` LIMIT $%d OFFSET $%d;`, len(args)-1, len(args))
	return sb.String(), args
}

const habitColumns = `id, user_id, title, frequency, start_date, is_active, slug, created_at`

func buildHabitListQuery(uid uuid.UUID, f HabitFilter, limit, offset int) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1`)
	args := []any{uid}
	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		fmt.Fprintf(&sb, ` AND title ILIKE $%d`, len(args))
	}
	if f.Frequency != "" {
		args = append(args, string(f.Frequency))
		fmt.Fprintf(&sb, ` AND frequency = $%d`, len(args))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		fmt.Fprintf(&sb, ` AND is_active = $%d`, len(args))
	}
	sb.WriteString(` ORDER BY ` + defaultHabitOrder)
	args = append(args, limit, offset)
	fmt.Fprintf(&sb, ` LIMIT $%d OFFSET $%d;`, len(args)-1, len(args))
	return sb.String(), args
}
