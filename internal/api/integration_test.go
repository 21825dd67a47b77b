package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	_ "github.com/lib/pq"
	"github.com/pressly/goose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/daniilk04/tracker/internal/api"
	"github.com/daniilk04/tracker/internal/repository"
	"github.com/daniilk04/tracker/internal/service"
	jwtservice "github.com/daniilk04/tracker/pkg/jwt_service"
)

type testPGConfig struct {
	connStr string
}

func (cfg *testPGConfig) ConnString() string {
	return cfg.connStr
}

func setupAPITestDB(t *testing.T) *testPGConfig {
	container, err := postgres.Run(context.Background(), "postgres:17",
		postgres.WithUsername("test_user"),
		postgres.WithDatabase("tracker"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatal("error running test container: " + err.Error())
	}
	connStr, err := container.ConnectionString(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	connStr += "sslmode=disable"
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatal(err)
	}
	err = goose.Up(conn, "../../migrations")
	if err != nil {
		t.Fatal(err)
	}

	conn.Close()
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})
	return &testPGConfig{
		connStr: connStr,
	}
}

func TestTrackerFlowIntegrational(t *testing.T) {
	cfg := setupAPITestDB(t)
	habitsRepo := repository.NewHabitsRepo(cfg)
	serv := api.New(&api.ServicesList{
		UserService:      service.NewUserService(repository.NewUsersRepo(cfg)),
		TasksService:     service.NewTasksService(repository.NewTasksRepo(cfg)),
		HabitsService:    service.NewHabitsService(habitsRepo),
		HabitLogsService: service.NewHabitLogsService(habitsRepo, repository.NewHabitLogsRepo(cfg)),
		JwtService:       jwtservice.New("test_secret"),
	})
	handler := serv.Handler()
	do := func(method, path, token string, payload any) *httptest.ResponseRecorder {
		var body *bytes.Reader
		if payload != nil {
			raw, err := sonic.ConfigDefault.Marshal(payload)
			require.NoError(t, err)
			body = bytes.NewReader(raw)
		} else {
			body = bytes.NewReader(nil)
		}
		req := httptest.NewRequest(method, path, body)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}
	var token string
	t.Run("register and login", func(t *testing.T) {
		rr := do(http.MethodPost, "/api/v1/auth/register", "", api.RegisterRequest{
			Name:     username,
			Password: password,
		})
		require.Equal(t, http.StatusCreated, rr.Result().StatusCode)

		rr = do(http.MethodPost, "/api/v1/auth/login", "", api.LoginRequest{
			Name:     username,
			Password: password,
		})
		require.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result)
		require.NoError(t, err)
		var ok bool
		token, ok = result["token"].(string)
		require.True(t, ok)
		require.NotEmpty(t, token)
	})
	t.Run("unauthorized without token", func(t *testing.T) {
		rr := do(http.MethodGet, "/api/v1/dashboard", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("task lifecycle", func(t *testing.T) {
		rr := do(http.MethodPost, "/api/v1/tasks", token, api.CreateTaskRequest{
			Title:    "Write report",
			Deadline: time.Now().AddDate(0, 0, 3).Format(time.DateOnly),
		})
		require.Equal(t, http.StatusCreated, rr.Result().StatusCode)

		rr = do(http.MethodGet, "/api/v1/tasks/write-report", token, nil)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)

		rr = do(http.MethodPatch, "/api/v1/tasks/write-report", token, api.UpdateTaskRequest{
			Status: "done",
		})
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)

		rr = do(http.MethodGet, "/api/v1/tasks?status=done", token, nil)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.GetTasksResponse
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp)
		require.NoError(t, err)
		assert.Equal(t, 1, len(resp.Tasks))
	})
	t.Run("habit lifecycle", func(t *testing.T) {
		rr := do(http.MethodPost, "/api/v1/habits", token, api.CreateHabitRequest{
			Title:     "Morning run",
			StartDate: time.Now().AddDate(0, 0, -7).Format(time.DateOnly),
		})
		require.Equal(t, http.StatusCreated, rr.Result().StatusCode)

		rr = do(http.MethodPost, "/api/v1/habits/morning-run/done", token, nil)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)

		rr = do(http.MethodPost, "/api/v1/habits/morning-run/done", token, nil)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)

		rr = do(http.MethodGet, "/api/v1/habits/morning-run", token, nil)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)

		rr = do(http.MethodDelete, "/api/v1/habits/morning-run", token, nil)
		assert.Equal(t, http.StatusConflict, rr.Result().StatusCode)
	})
	t.Run("dashboard", func(t *testing.T) {
		rr := do(http.MethodGet, "/api/v1/dashboard", token, nil)
		require.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.DashboardResponse
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp)
		require.NoError(t, err)
		assert.Equal(t, 1, len(resp.Habits))
		assert.Equal(t, 1, resp.HabitProgress.TotalDays)
		assert.Equal(t, 100, resp.HabitProgress.Percent)
	})
	t.Run("account deletion blocked by logged habit", func(t *testing.T) {
		rr := do(http.MethodDelete, "/api/v1/account", token, api.DeleteAccountRequest{
			Password: password,
		})
		assert.Equal(t, http.StatusConflict, rr.Result().StatusCode)
	})
}
