package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	errorvalues "github.com/daniilk04/tracker/internal/error_values"
	"github.com/daniilk04/tracker/internal/repository"
	"github.com/daniilk04/tracker/pkg/entity"
)

// Trailing windows, inclusive of today.
const (
	WeeklyWindowDays  = 7
	HistoryWindowDays = 30
)

type HabitLogsService struct {
	habitsRepo repository.HabitsRepositoryI
	logsRepo   repository.HabitLogsRepositoryI
}

func NewHabitLogsService(habitsRepo repository.HabitsRepositoryI, logsRepo repository.HabitLogsRepositoryI) *HabitLogsService {
	if habitsRepo == nil || logsRepo == nil {
		log.Fatal("on habit logs service provided nil repos")
	}
	return &HabitLogsService{
		habitsRepo: habitsRepo,
		logsRepo:   logsRepo,
	}
}

// MarkDone records "done today" for the owner's habit exactly once. The habit
// lookup is scoped by owner, so foreign habits surface as not found. Repeated
// calls for the same day are no-ops reporting created = false, even when the
// existing log says is_done = false.
func (serv *HabitLogsService) MarkDone(ctx context.Context, uid uuid.UUID, slug string, date time.Time) (bool, error) {
	habit, err := serv.habitsRepo.GetBySlug(ctx, uid, slug)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return false, err
		}
		return false, errors.New("repository error: " + err.Error())
	}
	day := dateOnly(date)
	exists, err := serv.logsRepo.Exists(ctx, habit.ID, day)
	if err != nil {
		return false, errors.New("repository error: " + err.Error())
	}
	if exists {
		return false, nil
	}
	err = serv.logsRepo.Create(ctx, habit.ID, day)
	if err != nil {
		// A concurrent call won between the existence check and the insert.
		// The store's unique constraint is the one source of truth here.
		if errors.Is(err, errorvalues.ErrLogExists) {
			return false, nil
		}
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return false, err
		}
		return false, errors.New("repository error: " + err.Error())
	}
	return true, nil
}

func (serv *HabitLogsService) GetHabitHistory(ctx context.Context, uid uuid.UUID, slug string, today time.Time) (*HabitHistory, error) {
	habit, err := serv.habitsRepo.GetBySlug(ctx, uid, slug)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	day := dateOnly(today)
	from := day.AddDate(0, 0, -HistoryWindowDays)
	logs, err := serv.logsRepo.ListByHabitSince(ctx, habit.ID, from)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	total, done, err := serv.logsRepo.CountByHabitSince(ctx, habit.ID, from)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	doneToday, err := serv.logsRepo.DoneOn(ctx, habit.ID, day)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return &HabitHistory{
		Habit:      habit,
		PeriodDays: HistoryWindowDays,
		Progress: entity.HabitProgress{
			TotalDays: total,
			DoneDays:  done,
			Percent:   progressPercent(done, total),
			DoneToday: doneToday,
		},
		Logs: logs,
	}, nil
}

func (serv *HabitLogsService) WeeklyProgress(ctx context.Context, uid uuid.UUID, today time.Time) (*entity.HabitProgress, error) {
	day := dateOnly(today)
	from := day.AddDate(0, 0, -WeeklyWindowDays)
	total, done, err := serv.logsRepo.CountByUserSince(ctx, uid, from)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return &entity.HabitProgress{
		TotalDays: total,
		DoneDays:  done,
		Percent:   progressPercent(done, total),
	}, nil
}

// progressPercent floors done/total into a whole percentage. An empty window
// is 0%, not an error: a habit with no logged days simply shows no progress.
func progressPercent(done, total int) int {
	if total == 0 {
		return 0
	}
	return done * 100 / total
}
