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

const defaultTaskDescription = "No description"

type TasksService struct {
	repo repository.TasksRepositoryI
}

func NewTasksService(tasksRepo repository.TasksRepositoryI) *TasksService {
	if tasksRepo == nil {
		log.Fatal("provided nil tasksRepo")
	}
	return &TasksService{
		repo: tasksRepo,
	}
}

func (ts *TasksService) CreateTask(ctx context.Context, uid uuid.UUID, req *CreateTaskRequest) (*entity.Task, error) {
	if err := validate.Struct(*req); err != nil {
		return nil, validationError(err)
	}
	status := req.Status
	if status == "" {
		status = entity.StatusTodo
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown task status %q", errorvalues.ErrValidation, req.Status)
	}
	priority := req.Priority
	if priority == 0 {
		priority = entity.PriorityLow
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: unknown task priority %d", errorvalues.ErrValidation, req.Priority)
	}
	deadline := dateOnly(req.Deadline)
	if deadline.Before(dateOnly(time.Now())) {
		return nil, fmt.Errorf("%w: deadline cannot be in the past", errorvalues.ErrValidation)
	}
	description := req.Description
	if description == "" {
		description = defaultTaskDescription
	}
	task := entity.Task{
		UserID:      uid,
		Title:       req.Title,
		Description: description,
		Status:      status,
		Priority:    priority,
		Deadline:    deadline,
	}
	for attempt := 0; ; attempt++ {
		taskSlug, err := assignSlug(ctx, req.Title, func(ctx context.Context, candidate string) (bool, error) {
			return ts.repo.SlugExists(ctx, uid, candidate)
		})
		if err != nil {
			return nil, errors.New("tasks repository error: " + err.Error())
		}
		task.Slug = taskSlug
		_, err = ts.repo.Create(ctx, &task)
		if err == nil {
			break
		}
		// Lost a concurrent race on the slug: the constraint fired after the
		// probe said the candidate was free. Probe again, next suffix wins.
		if errors.Is(err, errorvalues.ErrSlugTaken) && attempt < slugRaceRetries {
			continue
		}
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	created, err := ts.repo.GetBySlug(ctx, uid, task.Slug)
	if err != nil {
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return created, nil
}

func (ts *TasksService) GetTasks(ctx context.Context, uid uuid.UUID, filter repository.TaskFilter, pagination PaginationOpts) ([]*entity.Task, error) {
	tasks, err := ts.repo.List(ctx, uid, filter, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return tasks, nil
}

func (ts *TasksService) GetTask(ctx context.Context, uid uuid.UUID, slug string) (*entity.Task, error) {
	task, err := ts.repo.GetBySlug(ctx, uid, slug)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return task, nil
}

func (ts *TasksService) NearestDeadlines(ctx context.Context, uid uuid.UUID, limit int) ([]*entity.Task, error) {
	tasks, err := ts.repo.NearestDeadlines(ctx, uid, limit)
	if err != nil {
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return tasks, nil
}

func (ts *TasksService) UpdateTask(ctx context.Context, uid uuid.UUID, slug string, req *UpdateTaskRequest) (*entity.Task, error) {
	task, err := ts.repo.GetBySlug(ctx, uid, slug)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	if req.Status != "" {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown task status %q", errorvalues.ErrValidation, req.Status)
		}
		task.Status = req.Status
	}
	if req.Priority != 0 {
		if !req.Priority.Valid() {
			return nil, fmt.Errorf("%w: unknown task priority %d", errorvalues.ErrValidation, req.Priority)
		}
		task.Priority = req.Priority
	}
	if !req.Deadline.IsZero() {
		deadline := dateOnly(req.Deadline)
		if deadline.Before(dateOnly(time.Now())) {
			return nil, fmt.Errorf("%w: deadline cannot be in the past", errorvalues.ErrValidation)
		}
		task.Deadline = deadline
	}
	if err = ts.repo.Update(ctx, task); err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return task, nil
}
