package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/daniilk04/tracker/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Deletes user together with owned tasks and habits (cascade)
	Delete(ctx context.Context, uid uuid.UUID) error
}

type TasksRepositoryI interface {
	// Creates new task. Slug must already be assigned by the caller
	Create(ctx context.Context, task *entity.Task) (uuid.UUID, error)
	// Searches task by slug within the owner's scope
	GetBySlug(ctx context.Context, uid uuid.UUID, slug string) (*entity.Task, error)
	// Lists the owner's tasks narrowed by filter. Requires pagination params
	List(ctx context.Context, uid uuid.UUID, filter TaskFilter, limit, offset int) ([]*entity.Task, error)
	// Lists unfinished tasks closest to their deadline
	NearestDeadlines(ctx context.Context, uid uuid.UUID, limit int) ([]*entity.Task, error)
	// Inspects if a slug is already used within the owner's scope
	SlugExists(ctx context.Context, uid uuid.UUID, slug string) (bool, error)
	// Updates mutable task fields (status, priority, deadline) by ID
	Update(ctx context.Context, task *entity.Task) error
}

type HabitsRepositoryI interface {
	// Creates new habit. Slug must already be assigned by the caller
	Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error)
	// Searches habit by slug within the owner's scope
	GetBySlug(ctx context.Context, uid uuid.UUID, slug string) (*entity.Habit, error)
	// Lists the owner's habits narrowed by filter. Requires pagination params
	List(ctx context.Context, uid uuid.UUID, filter HabitFilter, limit, offset int) ([]*entity.Habit, error)
	// Lists the owner's active habits
	ListActive(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error)
	// Inspects if a slug is already used within the owner's scope
	SlugExists(ctx context.Context, uid uuid.UUID, slug string) (bool, error)
	// Toggles the is_active flag
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// Deletes habit. Habits with logged days are protected and refuse deletion
	Delete(ctx context.Context, id uuid.UUID) error
}

type HabitLogsRepositoryI interface {
	// Creates a log row for (habitID, date) with is_done = true
	Create(ctx context.Context, habitID uuid.UUID, date time.Time) error
	// Inspects if any log exists for (habitID, date)
	Exists(ctx context.Context, habitID uuid.UUID, date time.Time) (bool, error)
	// Inspects if a done log exists for (habitID, date)
	DoneOn(ctx context.Context, habitID uuid.UUID, date time.Time) (bool, error)
	// Provides the habit's logs from a date onwards, oldest first
	ListByHabitSince(ctx context.Context, habitID uuid.UUID, from time.Time) ([]entity.HabitLog, error)
	// Counts the habit's logs from a date onwards: all of them and the done ones
	CountByHabitSince(ctx context.Context, habitID uuid.UUID, from time.Time) (total, done int, err error)
	// Counts logs of all the owner's habits from a date onwards
	CountByUserSince(ctx context.Context, uid uuid.UUID, from time.Time) (total, done int, err error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
