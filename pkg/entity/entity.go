package entity

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type TaskPriority int

const (
	PriorityLow    TaskPriority = 1
	PriorityMedium TaskPriority = 2
	PriorityHigh   TaskPriority = 3
)

func (p TaskPriority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

type HabitFrequency string

const (
	FrequencyDaily         HabitFrequency = "daily"
	FrequencyWeekly        HabitFrequency = "weekly"
	FrequencyEveryOtherDay HabitFrequency = "every_other_day"
)

func (f HabitFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyEveryOtherDay:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
}

type Task struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"uid"`
	Title       string       `json:"title"`
	Description string       `json:"desc"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	Deadline    time.Time    `json:"deadline"`
	Slug        string       `json:"slug"`
	CreatedAt   time.Time    `json:"created_at"`
}

type Habit struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"uid"`
	Title     string         `json:"title"`
	Frequency HabitFrequency `json:"frequency"`
	StartDate time.Time      `json:"start_date"`
	IsActive  bool           `json:"is_active"`
	Slug      string         `json:"slug"`
	CreatedAt time.Time      `json:"created_at"`
}

type HabitLog struct {
	ID        int64     `json:"id"`
	HabitID   uuid.UUID `json:"habit_id"`
	LogDate   time.Time `json:"date"`
	IsDone    bool      `json:"is_done"`
	CreatedAt time.Time `json:"created_at"`
}

// HabitProgress is the rollup over a trailing day window: all logged days,
// how many of them were done and the floored done percentage.
type HabitProgress struct {
	TotalDays int  `json:"total_days"`
	DoneDays  int  `json:"done_days"`
	Percent   int  `json:"progress_percent"`
	DoneToday bool `json:"done_today"`
}
