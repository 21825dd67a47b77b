package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/daniilk04/tracker/internal/error_values"
	"github.com/daniilk04/tracker/pkg/cleanup"
	"github.com/daniilk04/tracker/pkg/entity"
)

type TasksRepository struct {
	conn PgConnection
}

func NewTasksRepo(cfg DBConfig) *TasksRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for tasksRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for tasksRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &TasksRepository{
		conn: pool,
	}
}

func NewTasksRepoWithConn(conn PgConnection) *TasksRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for tasksRepo: " + err.Error())
	}
	return &TasksRepository{
		conn: conn,
	}
}

func (tr *TasksRepository) Create(ctx context.Context, task *entity.Task) (uuid.UUID, error) {
	var id uuid.UUID
	row := tr.conn.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, description, status, priority, deadline, slug)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id;`,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Status),
		int(task.Priority),
		task.Deadline,
		task.Slug,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation: (user_id, slug) is the only unique pair here
			case "23505":
				return uuid.UUID{}, errorvalues.ErrSlugTaken
			// FK violation: owner doesn't exist
			case "23503":
				return uuid.UUID{}, errorvalues.ErrUserNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating task db error: " + err.Error())
	}
	return id, nil
}

func (tr *TasksRepository) GetBySlug(ctx context.Context, uid uuid.UUID, slug string) (*entity.Task, error) {
	var task entity.Task
	row := tr.conn.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 AND slug = $2;`, uid, slug)
	if err := scanTask(row, &task); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTaskNotFound
		}
		return nil, errors.New("getting task by slug error: " + err.Error())
	}
	return &task, nil
}

func (tr *TasksRepository) List(ctx context.Context, uid uuid.UUID, filter TaskFilter, limit, offset int) ([]*entity.Task, error) {
	query, args := buildTaskListQuery(uid, filter, limit, offset)
	rows, err := tr.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.New("listing tasks error: " + err.Error())
	}
	defer rows.Close()
	tasks := make([]*entity.Task, 0)
	for rows.Next() {
		t := entity.Task{}
		if err = scanTask(rows, &t); err != nil {
			return nil, errors.New("task row parsing error: " + err.Error())
		}
		tasks = append(tasks, &t)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected task rows error: " + rows.Err().Error())
	}
	return tasks, nil
}

func (tr *TasksRepository) NearestDeadlines(ctx context.Context, uid uuid.UUID, limit int) ([]*entity.Task, error) {
	rows, err := tr.conn.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 AND status IN ($2, $3) ORDER BY deadline ASC LIMIT $4;`,
		uid,
		string(entity.StatusTodo),
		string(entity.StatusInProgress),
		limit,
	)
	if err != nil {
		return nil, errors.New("listing nearest deadlines error: " + err.Error())
	}
	defer rows.Close()
	tasks := make([]*entity.Task, 0, limit)
	for rows.Next() {
		t := entity.Task{}
		if err = scanTask(rows, &t); err != nil {
			return nil, errors.New("task row parsing error: " + err.Error())
		}
		tasks = append(tasks, &t)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected task rows error: " + rows.Err().Error())
	}
	return tasks, nil
}

func (tr *TasksRepository) SlugExists(ctx context.Context, uid uuid.UUID, slug string) (bool, error) {
	var exists bool
	row := tr.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tasks WHERE user_id = $1 AND slug = $2);`, uid, slug)
	if err := row.Scan(&exists); err != nil {
		return false, errors.New("inspecting if task slug exists error: " + err.Error())
	}
	return exists, nil
}

// Update touches the mutable fields only. Title and slug stay pinned so task
// URLs survive edits.
func (tr *TasksRepository) Update(ctx context.Context, task *entity.Task) error {
	ct, err := tr.conn.Exec(ctx, `UPDATE tasks SET status = $1, priority = $2, deadline = $3 WHERE id = $4;`,
		string(task.Status),
		int(task.Priority),
		task.Deadline,
		task.ID,
	)
	if err != nil {
		return errors.New("error updating task: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTaskNotFound
	}
	return nil
}

func scanTask(row pgx.Row, t *entity.Task) error {
	return row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Deadline, &t.Slug, &t.CreatedAt)
}
