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

type HabitsRepository struct {
	conn PgConnection
}

func NewHabitsRepo(cfg DBConfig) *HabitsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for habitsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &HabitsRepository{
		conn: pool,
	}
}

func NewHabitsRepoWithConn(conn PgConnection) *HabitsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	return &HabitsRepository{
		conn: conn,
	}
}

func (hr *HabitsRepository) Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error) {
	var id uuid.UUID
	row := hr.conn.QueryRow(ctx,
		`INSERT INTO habits (user_id, title, frequency, start_date, is_active, slug)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		habit.UserID,
		habit.Title,
		string(habit.Frequency),
		habit.StartDate,
		habit.IsActive,
		habit.Slug,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation on (user_id, slug)
			case "23505":
				return uuid.UUID{}, errorvalues.ErrSlugTaken
			// FK violation: owner doesn't exist
			case "23503":
				return uuid.UUID{}, errorvalues.ErrUserNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating habit db error: " + err.Error())
	}
	return id, nil
}

func (hr *HabitsRepository) GetBySlug(ctx context.Context, uid uuid.UUID, slug string) (*entity.Habit, error) {
	var habit entity.Habit
	row := hr.conn.QueryRow(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE user_id = $1 AND slug = $2;`, uid, slug)
	if err := scanHabit(row, &habit); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("getting habit by slug error: " + err.Error())
	}
	return &habit, nil
}

func (hr *HabitsRepository) List(ctx context.Context, uid uuid.UUID, filter HabitFilter, limit, offset int) ([]*entity.Habit, error) {
	query, args := buildHabitListQuery(uid, filter, limit, offset)
	rows, err := hr.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.New("listing habits error: " + err.Error())
	}
	defer rows.Close()
	habits := make([]*entity.Habit, 0)
	for rows.Next() {
		h := entity.Habit{}
		if err = scanHabit(rows, &h); err != nil {
			return nil, errors.New("habit row parsing error: " + err.Error())
		}
		habits = append(habits, &h)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected habit rows error: " + rows.Err().Error())
	}
	return habits, nil
}

func (hr *HabitsRepository) ListActive(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	rows, err := hr.conn.Query(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE user_id = $1 AND is_active = true ORDER BY title ASC;`, uid)
	if err != nil {
		return nil, errors.New("listing active habits error: " + err.Error())
	}
	defer rows.Close()
	habits := make([]*entity.Habit, 0)
	for rows.Next() {
		h := entity.Habit{}
		if err = scanHabit(rows, &h); err != nil {
			return nil, errors.New("habit row parsing error: " + err.Error())
		}
		habits = append(habits, &h)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected habit rows error: " + rows.Err().Error())
	}
	return habits, nil
}

func (hr *HabitsRepository) SlugExists(ctx context.Context, uid uuid.UUID, slug string) (bool, error) {
	var exists bool
	row := hr.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM habits WHERE user_id = $1 AND slug = $2);`, uid, slug)
	if err := row.Scan(&exists); err != nil {
		return false, errors.New("inspecting if habit slug exists error: " + err.Error())
	}
	return exists, nil
}

func (hr *HabitsRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET is_active = $1 WHERE id = $2;`, active, id)
	if err != nil {
		return errors.New("error updating habit activity: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := hr.conn.Exec(ctx, `DELETE FROM habits WHERE id = $1;`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation: habit_logs reference this habit and are protected
			case "23503":
				return errorvalues.ErrHabitHasLogs
			}
		}
		return errors.New("error deleting habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func scanHabit(row pgx.Row, h *entity.Habit) error {
	return row.Scan(&h.ID, &h.UserID, &h.Title, &h.Frequency, &h.StartDate, &h.IsActive, &h.Slug, &h.CreatedAt)
}
