package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	errorvalues "github.com/daniilk04/tracker/internal/error_values"
	"github.com/daniilk04/tracker/internal/service"
	"github.com/daniilk04/tracker/pkg/entity"
	"github.com/daniilk04/tracker/pkg/httputil"
)

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"desc"`
	Status      string `json:"status"`
	Priority    int    `json:"priority"`
	// Calendar date, "2006-01-02"
	Deadline string `json:"deadline"`
}

type UpdateTaskRequest struct {
	Status   string `json:"status"`
	Priority int    `json:"priority"`
	Deadline string `json:"deadline"`
}

type GetTasksResponse struct {
	UserID string         `json:"uid"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
	Tasks  []*entity.Task `json:"tasks"`
}

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create task error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateTaskRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	deadline, err := time.Parse(time.DateOnly, req.Deadline)
	if err != nil {
		logger.Error("create task error: invalid deadline format")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "deadline must be a YYYY-MM-DD date", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.tasksService.CreateTask(ctx, uid, &service.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Status:      entity.TaskStatus(req.Status),
		Priority:    entity.TaskPriority(req.Priority),
		Deadline:    deadline,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("create task error: invalid task data", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusUnprocessableEntity, "invalid task data", err)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("create task error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "couldn't create task: user doesn't exists", nil)
		default:
			logger.Error("create task error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating task", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, task)
	logger.Info("task created", slog.String("slug", task.Slug))
}

func (s *Server) GetTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get tasks error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	filter := parseTaskFilter(r)
	page, pagination := parsePagination(r)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	tasks, err := s.tasksService.GetTasks(ctx, uid, filter, pagination)
	if err != nil {
		logger.Error("getting tasks list error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting tasks list", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetTasksResponse{
		UserID: uid.String(),
		Page:   page,
		Limit:  pagination.Limit,
		Tasks:  tasks,
	})
	logger.Info("tasks provided")
}

func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get task error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	slug := r.PathValue("slug")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.tasksService.GetTask(ctx, uid, slug)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			logger.Error("get task error: unexist task")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "task doesn't exist", nil)
			return
		}
		logger.Error("get task error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting task", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task provided", slog.String("slug", slug))
}

func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update task error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	slug := r.PathValue("slug")
	var req UpdateTaskRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	var deadline time.Time
	if req.Deadline != "" {
		deadline, err = time.Parse(time.DateOnly, req.Deadline)
		if err != nil {
			logger.Error("update task error: invalid deadline format")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "deadline must be a YYYY-MM-DD date", nil)
			return
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.tasksService.UpdateTask(ctx, uid, slug, &service.UpdateTaskRequest{
		Status:   entity.TaskStatus(req.Status),
		Priority: entity.TaskPriority(req.Priority),
		Deadline: deadline,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrTaskNotFound):
			logger.Error("update task error: unexist task")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "task doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("update task error: invalid task data", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusUnprocessableEntity, "invalid task data", err)
		default:
			logger.Error("update task error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating task", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task updated", slog.String("slug", slug))
}
