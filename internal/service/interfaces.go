package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/daniilk04/tracker/internal/repository"
	"github.com/daniilk04/tracker/pkg/entity"
)

type PaginationOpts struct {
	Limit  int
	Offset int
}

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Email    string `validate:"omitempty,email,max=255"`
	Password string `validate:"required,min=8,max=72"`
}

type CreateTaskRequest struct {
	Title       string `validate:"required,max=200"`
	Description string
	Status      entity.TaskStatus
	Priority    entity.TaskPriority
	Deadline    time.Time `validate:"required"`
}

type UpdateTaskRequest struct {
	Status   entity.TaskStatus
	Priority entity.TaskPriority
	// Zero value keeps the current deadline
	Deadline time.Time
}

type CreateHabitRequest struct {
	Title     string `validate:"required,max=200"`
	Frequency entity.HabitFrequency
	StartDate time.Time `validate:"required"`
}

// HabitHistory is the habit detail payload: the habit itself, its logs for
// the trailing window and the progress rollup over that window.
type HabitHistory struct {
	Habit      *entity.Habit        `json:"habit"`
	PeriodDays int                  `json:"period_days"`
	Progress   entity.HabitProgress `json:"progress"`
	Logs       []entity.HabitLog    `json:"logs"`
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type TasksServiceI interface {
	// Validates the request, assigns a slug unique within the owner's scope
	// and persists the task
	CreateTask(ctx context.Context, uid uuid.UUID, req *CreateTaskRequest) (*entity.Task, error)
	GetTasks(ctx context.Context, uid uuid.UUID, filter repository.TaskFilter, pagination PaginationOpts) ([]*entity.Task, error)
	GetTask(ctx context.Context, uid uuid.UUID, slug string) (*entity.Task, error)
	NearestDeadlines(ctx context.Context, uid uuid.UUID, limit int) ([]*entity.Task, error)
	// Edits status/priority/deadline. Slug and title stay pinned
	UpdateTask(ctx context.Context, uid uuid.UUID, slug string, req *UpdateTaskRequest) (*entity.Task, error)
}

type HabitsServiceI interface {
	CreateHabit(ctx context.Context, uid uuid.UUID, req *CreateHabitRequest) (*entity.Habit, error)
	GetHabits(ctx context.Context, uid uuid.UUID, filter repository.HabitFilter, pagination PaginationOpts) ([]*entity.Habit, error)
	GetActiveHabits(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error)
	SetHabitActive(ctx context.Context, uid uuid.UUID, slug string, active bool) (*entity.Habit, error)
	DeleteHabit(ctx context.Context, uid uuid.UUID, slug string) error
}

type HabitLogsServiceI interface {
	// Records "habit done" for the given day exactly once. The returned flag
	// is true when a new log row was created and false when the day was
	// already marked
	MarkDone(ctx context.Context, uid uuid.UUID, slug string, date time.Time) (bool, error)
	// Habit detail: logs and progress over the trailing 30 days
	GetHabitHistory(ctx context.Context, uid uuid.UUID, slug string, today time.Time) (*HabitHistory, error)
	// Dashboard rollup: progress of all the owner's habits over the trailing 7 days
	WeeklyProgress(ctx context.Context, uid uuid.UUID, today time.Time) (*entity.HabitProgress, error)
}
