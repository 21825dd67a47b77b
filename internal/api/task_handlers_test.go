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
	"github.com/daniilk04/tracker/internal/service"
	"github.com/daniilk04/tracker/pkg/entity"
)

func TestCreateTask(t *testing.T) {
	tasksMock := &tasksServiceMock{task: &entity.Task{
		UserID:   uid,
		Title:    "Write report",
		Status:   entity.StatusTodo,
		Priority: entity.PriorityLow,
		Slug:     "write-report",
	}}
	serv := api.New(&api.ServicesList{
		TasksService: tasksMock,
	})
	body, err := sonic.ConfigDefault.Marshal(api.CreateTaskRequest{
		Title:    "Write report",
		Deadline: time.Now().AddDate(0, 0, 1).Format(time.DateOnly),
	})
	require.NoError(t, err)
	testCases := []struct {
		Name         string
		Err          error
		Body         io.Reader
		ExpectedCode int
	}{
		{Name: "created", Err: nil, Body: bytes.NewReader(body), ExpectedCode: http.StatusCreated},
		{Name: "invalid task data", Err: errorvalues.ErrValidation, Body: bytes.NewReader(body), ExpectedCode: http.StatusUnprocessableEntity},
		{Name: "unexist user", Err: errorvalues.ErrUserNotFound, Body: bytes.NewReader(body), ExpectedCode: http.StatusNotFound},
		{Name: "service error", Err: errors.New("service error"), Body: bytes.NewReader(body), ExpectedCode: http.StatusInternalServerError},
		{Name: "corrupted body", Err: nil, Body: bytes.NewReader([]byte("corrupted")), ExpectedCode: http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			tasksMock.err = tc.Err
			rr := httptest.NewRecorder()
			req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/tasks", tc.Body))
			serv.CreateTask(rr, req)
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}
	t.Run("non-date deadline", func(t *testing.T) {
		tasksMock.err = nil
		badBody, err := sonic.ConfigDefault.Marshal(api.CreateTaskRequest{
			Title:    "Write report",
			Deadline: "tomorrow",
		})
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewReader(badBody)))
		serv.CreateTask(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewReader(body))
		serv.CreateTask(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
}

func TestGetTasks(t *testing.T) {
	tasksMock := &tasksServiceMock{task: &entity.Task{UserID: uid, Slug: "write-report"}}
	serv := api.New(&api.ServicesList{
		TasksService: tasksMock,
	})
	t.Run("filters and pagination reach the service", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/tasks?search=report&status=done&sort=-priority&page=2&limit=4", nil))
		serv.GetTasks(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		assert.Equal(t, repository.TaskFilter{
			Search: "report",
			Status: entity.StatusDone,
			Sort:   "-priority",
		}, tasksMock.lastFilter)
		assert.Equal(t, service.PaginationOpts{Limit: 4, Offset: 4}, tasksMock.lastPagination)
		var resp api.GetTasksResponse
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp)
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Page)
		assert.Equal(t, 1, len(resp.Tasks))
	})
	t.Run("bogus params degrade to defaults", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/tasks?status=archived&sort=garbage&page=-1&limit=9000", nil))
		serv.GetTasks(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		assert.Equal(t, repository.TaskFilter{}, tasksMock.lastFilter)
		assert.Equal(t, service.PaginationOpts{Limit: 7, Offset: 0}, tasksMock.lastPagination)
	})
	t.Run("service error", func(t *testing.T) {
		tasksMock.err = errors.New("service error")
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil))
		serv.GetTasks(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
		tasksMock.err = nil
	})
}

func TestGetTask(t *testing.T) {
	tasksMock := &tasksServiceMock{task: &entity.Task{UserID: uid, Slug: "write-report"}}
	serv := api.New(&api.ServicesList{
		TasksService: tasksMock,
	})
	t.Run("found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/tasks/write-report", nil))
		req.SetPathValue("slug", "write-report")
		serv.GetTask(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp entity.Task
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp)
		require.NoError(t, err)
		assert.Equal(t, "write-report", resp.Slug)
	})
	t.Run("not found", func(t *testing.T) {
		tasksMock.err = errorvalues.ErrTaskNotFound
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/tasks/missing", nil))
		req.SetPathValue("slug", "missing")
		serv.GetTask(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
		tasksMock.err = nil
	})
}

func TestUpdateTask(t *testing.T) {
	tasksMock := &tasksServiceMock{task: &entity.Task{
		UserID: uid,
		Status: entity.StatusDone,
		Slug:   "write-report",
	}}
	serv := api.New(&api.ServicesList{
		TasksService: tasksMock,
	})
	body, err := sonic.ConfigDefault.Marshal(api.UpdateTaskRequest{
		Status: "done",
	})
	require.NoError(t, err)
	t.Run("updated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPatch, "/api/v1/tasks/write-report", bytes.NewReader(body)))
		req.SetPathValue("slug", "write-report")
		serv.UpdateTask(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("non-date deadline", func(t *testing.T) {
		badBody, err := sonic.ConfigDefault.Marshal(api.UpdateTaskRequest{
			Deadline: "next week",
		})
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPatch, "/api/v1/tasks/write-report", bytes.NewReader(badBody)))
		req.SetPathValue("slug", "write-report")
		serv.UpdateTask(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("not found", func(t *testing.T) {
		tasksMock.err = errorvalues.ErrTaskNotFound
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPatch, "/api/v1/tasks/missing", bytes.NewReader(body)))
		req.SetPathValue("slug", "missing")
		serv.UpdateTask(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("invalid task data", func(t *testing.T) {
		tasksMock.err = errorvalues.ErrValidation
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPatch, "/api/v1/tasks/write-report", bytes.NewReader(body)))
		req.SetPathValue("slug", "write-report")
		serv.UpdateTask(rr, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Result().StatusCode)
		tasksMock.err = nil
	})
}
