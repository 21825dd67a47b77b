package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	errorvalues "github.com/daniilk04/tracker/internal/error_values"
	"github.com/daniilk04/tracker/internal/repository"
	"github.com/daniilk04/tracker/pkg/entity"
)

type HabitsService struct {
	repo repository.HabitsRepositoryI
}

func NewHabitsService(habitsRepo repository.HabitsRepositoryI) *HabitsService {
	if habitsRepo == nil {
		log.Fatal("provided nil habitsRepo")
	}
	return &HabitsService{
		repo: habitsRepo,
	}
}

func (hs *HabitsService) CreateHabit(ctx context.Context, uid uuid.UUID, req *CreateHabitRequest) (*entity.Habit, error) {
	if err := validate.Struct(*req); err != nil {
		return nil, validationError(err)
	}
	frequency := req.Frequency
	if frequency == "" {
		frequency = entity.FrequencyDaily
	}
	if !frequency.Valid() {
		return nil, fmt.Errorf("%w: unknown habit frequency %q", errorvalues.ErrValidation, req.Frequency)
	}
	startDate := dateOnly(req.StartDate)
	if startDate.After(dateOnly(time.Now())) {
		return nil, fmt.Errorf("%w: start date cannot be in the future", errorvalues.ErrValidation)
	}
	habit := entity.Habit{
		UserID:    uid,
		Title:     req.Title,
		Frequency: frequency,
		StartDate: startDate,
		IsActive:  true,
	}
	for attempt := 0; ; attempt++ {
		habitSlug, err := assignSlug(ctx, req.Title, func(ctx context.Context, candidate string) (bool, error) {
			return hs.repo.SlugExists(ctx, uid, candidate)
		})
		if err != nil {
			return nil, errors.New("habits repository error: " + err.Error())
		}
		habit.Slug = habitSlug
		_, err = hs.repo.Create(ctx, &habit)
		if err == nil {
			break
		}
		// Concurrent creation took the probed slug first, try the next suffix
		if errors.Is(err, errorvalues.ErrSlugTaken) && attempt < slugRaceRetries {
			continue
		}
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	created, err := hs.repo.GetBySlug(ctx, uid, habit.Slug)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return created, nil
}

func (hs *HabitsService) GetHabits(ctx context.Context, uid uuid.UUID, filter repository.HabitFilter, pagination PaginationOpts) ([]*entity.Habit, error) {
	habits, err := hs.repo.List(ctx, uid, filter, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habits, nil
}

func (hs *HabitsService) GetActiveHabits(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	habits, err := hs.repo.ListActive(ctx, uid)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habits, nil
}

func (hs *HabitsService) SetHabitActive(ctx context.Context, uid uuid.UUID, slug string, active bool) (*entity.Habit, error) {
	habit, err := hs.repo.GetBySlug(ctx, uid, slug)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	if habit.IsActive == active {
		return habit, nil
	}
	if err = hs.repo.SetActive(ctx, habit.ID, active); err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	habit.IsActive = active
	return habit, nil
}

func (hs *HabitsService) DeleteHabit(ctx context.Context, uid uuid.UUID, slug string) error {
	habit, err := hs.repo.GetBySlug(ctx, uid, slug)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	err = hs.repo.Delete(ctx, habit.ID)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrHabitNotFound):
			return err
		case errors.Is(err, errorvalues.ErrHabitHasLogs):
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}
