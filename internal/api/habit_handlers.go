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

type CreateHabitRequest struct {
	Title     string `json:"title"`
	Frequency string `json:"frequency"`
	// Calendar date, "2006-01-02"
	StartDate string `json:"start_date"`
}

type SetHabitActiveRequest struct {
	Active bool `json:"active"`
}

type GetHabitsResponse struct {
	UserID string          `json:"uid"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
	Habits []*entity.Habit `json:"habits"`
}

type MarkDoneResponse struct {
	Created bool   `json:"created"`
	Message string `json:"message"`
}

func (s *Server) CreateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create habit error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateHabitRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create habit error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	startDate, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		logger.Error("create habit error: invalid start date format")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "start_date must be a YYYY-MM-DD date", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	habit, err := s.habitsService.CreateHabit(ctx, uid, &service.CreateHabitRequest{
		Title:     req.Title,
		Frequency: entity.HabitFrequency(req.Frequency),
		StartDate: startDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("create habit error: invalid habit data", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusUnprocessableEntity, "invalid habit data", err)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("create habit error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "couldn't create habit: user doesn't exists", nil)
		default:
			logger.Error("create habit error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating habit", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, habit)
	logger.Info("habit created", slog.String("slug", habit.Slug))
}

func (s *Server) GetHabits(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get habits error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	filter := parseHabitFilter(r)
	page, pagination := parsePagination(r)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	habits, err := s.habitsService.GetHabits(ctx, uid, filter, pagination)
	if err != nil {
		logger.Error("getting habits list error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting habits list", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetHabitsResponse{
		UserID: uid.String(),
		Page:   page,
		Limit:  pagination.Limit,
		Habits: habits,
	})
	logger.Info("habits provided")
}

func (s *Server) GetHabitHistory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get habit history error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	slug := r.PathValue("slug")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	history, err := s.logsService.GetHabitHistory(ctx, uid, slug, time.Now())
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			logger.Error("get habit history error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
			return
		}
		logger.Error("get habit history error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting habit history", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, history)
	logger.Info("habit history provided", slog.String("slug", slug))
}

func (s *Server) SetHabitActive(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("habit activity error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	slug := r.PathValue("slug")
	var req SetHabitActiveRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("habit activity error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	habit, err := s.habitsService.SetHabitActive(ctx, uid, slug, req.Active)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			logger.Error("habit activity error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
			return
		}
		logger.Error("habit activity error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating habit", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
	logger.Info("habit activity updated", slog.String("slug", slug))
}

func (s *Server) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("habit deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	slug := r.PathValue("slug")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.habitsService.DeleteHabit(ctx, uid, slug)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrHabitNotFound):
			logger.Error("habit deletion error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrHabitHasLogs):
			logger.Error("habit deletion error: habit has logs")
			httputil.WriteErrorResponse(w, http.StatusConflict, "habit has logged days and can't be deleted", nil)
		default:
			logger.Error("habit deletion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting habit", nil)
		}
		return
	}
	httputil.WriteMessageResponse(w, http.StatusOK, "habit deleted")
	logger.Info("habit deleted", slog.String("slug", slug))
}

func (s *Server) MarkHabitDone(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("mark done error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	slug := r.PathValue("slug")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	created, err := s.logsService.MarkDone(ctx, uid, slug, time.Now())
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			logger.Error("mark done error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
			return
		}
		logger.Error("mark done error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while marking habit", nil)
		return
	}
	if created {
		httputil.WriteJSONResponse(w, http.StatusCreated, MarkDoneResponse{
			Created: true,
			Message: "habit marked as done for today",
		})
		logger.Info("habit marked as done", slog.String("slug", slug))
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, MarkDoneResponse{
		Created: false,
		Message: "habit already marked for today",
	})
	logger.Info("habit already marked", slog.String("slug", slug))
}
