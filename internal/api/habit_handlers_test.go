package api_test

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilk04/tracker/internal/api"
	errorvalues "github.com/daniilk04/tracker/internal/error_values"
	"github.com/daniilk04/tracker/internal/repository"
	"github.com/daniilk04/tracker/pkg/entity"
)

func TestCreateHabit(t *testing.T) {
	habitsMock := &habitsServiceMock{habit: &entity.Habit{
		UserID:    uid,
		Title:     "Morning run",
		Frequency: entity.FrequencyDaily,
		IsActive:  true,
		Slug:      "morning-run",
	}}
	serv := api.New(&api.ServicesList{
		HabitsService: habitsMock,
	})
	body, err := sonic.ConfigDefault.Marshal(api.CreateHabitRequest{
		Title:     "Morning run",
		StartDate: time.Now().AddDate(0, 0, -7).Format(time.DateOnly),
	})
	require.NoError(t, err)
	testCases := []struct {
		Name         string
		Err          error
		Body         io.Reader
		ExpectedCode int
	}{
		{Name: "created", Err: nil, Body: bytes.NewReader(body), ExpectedCode: http.StatusCreated},
		{Name: "invalid habit data", Err: errorvalues.ErrValidation, Body: bytes.NewReader(body), ExpectedCode: http.StatusUnprocessableEntity},
		{Name: "unexist user", Err: errorvalues.ErrUserNotFound, Body: bytes.NewReader(body), ExpectedCode: http.StatusNotFound},
		{Name: "service error", Err: errors.New("service error"), Body: bytes.NewReader(body), ExpectedCode: http.StatusInternalServerError},
		{Name: "corrupted body", Err: nil, Body: bytes.NewReader([]byte("corrupted")), ExpectedCode: http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			habitsMock.err = tc.Err
			rr := httptest.NewRecorder()
			req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/habits", tc.Body))
			serv.CreateHabit(rr, req)
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}
	t.Run("non-date start date", func(t *testing.T) {
		habitsMock.err = nil
		badBody, err := sonic.ConfigDefault.Marshal(api.CreateHabitRequest{
			Title:     "Morning run",
			StartDate: "last monday",
		})
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/habits", bytes.NewReader(badBody)))
		serv.CreateHabit(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestGetHabits(t *testing.T) {
	habitsMock := &habitsServiceMock{habit: &entity.Habit{UserID: uid, Slug: "morning-run", IsActive: true}}
	serv := api.New(&api.ServicesList{
		HabitsService: habitsMock,
	})
	t.Run("filters reach the service", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/habits?search=run&frequency=daily&active=true", nil))
		serv.GetHabits(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		require.NotNil(t, habitsMock.lastFilter.Active)
		assert.True(t, *habitsMock.lastFilter.Active)
		assert.Equal(t, "run", habitsMock.lastFilter.Search)
		assert.Equal(t, entity.FrequencyDaily, habitsMock.lastFilter.Frequency)
		var resp api.GetHabitsResponse
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp)
		require.NoError(t, err)
		assert.Equal(t, 1, len(resp.Habits))
	})
	t.Run("bogus params degrade to defaults", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/habits?frequency=hourly&active=maybe", nil))
		serv.GetHabits(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		assert.Equal(t, repository.HabitFilter{}, habitsMock.lastFilter)
	})
	t.Run("service error", func(t *testing.T) {
		habitsMock.err = errors.New("service error")
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/habits", nil))
		serv.GetHabits(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
		habitsMock.err = nil
	})
}

func TestGetHabitHistory(t *testing.T) {
	logsMock := &logsServiceMock{}
	serv := api.New(&api.ServicesList{
		HabitLogsService: logsMock,
	})
	t.Run("provided", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/habits/morning-run", nil))
		req.SetPathValue("slug", "morning-run")
		serv.GetHabitHistory(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("not found", func(t *testing.T) {
		logsMock.err = errorvalues.ErrHabitNotFound
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/habits/missing", nil))
		req.SetPathValue("slug", "missing")
		serv.GetHabitHistory(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
		logsMock.err = nil
	})
}

func TestSetHabitActive(t *testing.T) {
	habitsMock := &habitsServiceMock{habit: &entity.Habit{UserID: uid, Slug: "morning-run", IsActive: true}}
	serv := api.New(&api.ServicesList{
		HabitsService: habitsMock,
	})
	body, err := sonic.ConfigDefault.Marshal(api.SetHabitActiveRequest{
		Active: false,
	})
	require.NoError(t, err)
	t.Run("deactivated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPatch, "/api/v1/habits/morning-run/active", bytes.NewReader(body)))
		req.SetPathValue("slug", "morning-run")
		serv.SetHabitActive(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp entity.Habit
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp)
		require.NoError(t, err)
		assert.False(t, resp.IsActive)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPatch, "/api/v1/habits/morning-run/active", bytes.NewReader([]byte("corrupted"))))
		req.SetPathValue("slug", "morning-run")
		serv.SetHabitActive(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("not found", func(t *testing.T) {
		habitsMock.err = errorvalues.ErrHabitNotFound
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPatch, "/api/v1/habits/missing/active", bytes.NewReader(body)))
		req.SetPathValue("slug", "missing")
		serv.SetHabitActive(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
		habitsMock.err = nil
	})
}

func TestDeleteHabit(t *testing.T) {
	habitsMock := &habitsServiceMock{habit: &entity.Habit{UserID: uid, Slug: "morning-run"}}
	serv := api.New(&api.ServicesList{
		HabitsService: habitsMock,
	})
	testCases := []struct {
		Name         string
		Err          error
		ExpectedCode int
	}{
		{Name: "deleted", Err: nil, ExpectedCode: http.StatusOK},
		{Name: "not found", Err: errorvalues.ErrHabitNotFound, ExpectedCode: http.StatusNotFound},
		{Name: "protected by logs", Err: errorvalues.ErrHabitHasLogs, ExpectedCode: http.StatusConflict},
		{Name: "service error", Err: errors.New("service error"), ExpectedCode: http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			habitsMock.err = tc.Err
			rr := httptest.NewRecorder()
			req := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/habits/morning-run", nil))
			req.SetPathValue("slug", "morning-run")
			serv.DeleteHabit(rr, req)
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}
}

func TestMarkHabitDone(t *testing.T) {
	logsMock := &logsServiceMock{}
	serv := api.New(&api.ServicesList{
		HabitLogsService: logsMock,
	})
	markDone := func() *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/habits/morning-run/done", nil))
		req.SetPathValue("slug", "morning-run")
		serv.MarkHabitDone(rr, req)
		return rr
	}
	t.Run("first mark of the day", func(t *testing.T) {
		logsMock.created = true
		rr := markDone()
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
		var resp api.MarkDoneResponse
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp)
		require.NoError(t, err)
		assert.True(t, resp.Created)
	})
	t.Run("already marked", func(t *testing.T) {
		logsMock.created = false
		rr := markDone()
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.MarkDoneResponse
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp)
		require.NoError(t, err)
		assert.False(t, resp.Created)
	})
	t.Run("not found", func(t *testing.T) {
		logsMock.err = errorvalues.ErrHabitNotFound
		rr := markDone()
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
		logsMock.err = nil
	})
	t.Run("service error", func(t *testing.T) {
		logsMock.err = errors.New("service error")
		rr := markDone()
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
		logsMock.err = nil
	})
}
