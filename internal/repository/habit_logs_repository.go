package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/daniilk04/tracker/internal/error_values"
	"github.com/daniilk04/tracker/pkg/cleanup"
	"github.com/daniilk04/tracker/pkg/entity"
)

type HabitLogsRepository struct {
	conn PgConnection
}

func NewHabitLogsRepo(cfg DBConfig) *HabitLogsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for habitLogsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitLogsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &HabitLogsRepository{
		conn: pool,
	}
}

func NewHabitLogsRepoWithConn(conn PgConnection) *HabitLogsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitLogsRepo: " + err.Error())
	}
	return &HabitLogsRepository{
		conn: conn,
	}
}

func (logsRepo *HabitLogsRepository) Create(ctx context.Context, habitID uuid.UUID, date time.Time) error {
	_, err := logsRepo.conn.Exec(
		ctx,
		`INSERT INTO habit_logs (habit_id, log_date) VALUES ($1, $2);`,
		habitID,
		date,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation on (habit_id, log_date)
			case "23505":
				return errorvalues.ErrLogExists
			// FK violation
			case "23503":
				return errorvalues.ErrHabitNotFound
			}
		}
		return errors.New("creating habit log error: " + err.Error())
	}
	return nil
}

func (logsRepo *HabitLogsRepository) Exists(ctx context.Context, habitID uuid.UUID, date time.Time) (bool, error) {
	var exists bool
	row := logsRepo.conn.QueryRow(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM habit_logs WHERE habit_id = $1 AND log_date = $2);`,
		habitID,
		date,
	)
	if err := row.Scan(&exists); err != nil {
		return false, errors.New("inspecting if habit log exists error: " + err.Error())
	}
	return exists, nil
}

func (logsRepo *HabitLogsRepository) DoneOn(ctx context.Context, habitID uuid.UUID, date time.Time) (bool, error) {
	var done bool
	row := logsRepo.conn.QueryRow(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM habit_logs WHERE habit_id = $1 AND log_date = $2 AND is_done = true);`,
		habitID,
		date,
	)
	if err := row.Scan(&done); err != nil {
		return false, errors.New("inspecting done log error: " + err.Error())
	}
	return done, nil
}

func (logsRepo *HabitLogsRepository) ListByHabitSince(ctx context.Context, habitID uuid.UUID, from time.Time) ([]entity.HabitLog, error) {
	rows, err := logsRepo.conn.Query(
		ctx,
		`SELECT id, habit_id, log_date, is_done, created_at FROM habit_logs WHERE habit_id = $1 AND log_date >= $2 ORDER BY log_date ASC;`,
		habitID,
		from,
	)
	if err != nil {
		return nil, errors.New("getting habit logs for period error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.HabitLog, 0)
	for rows.Next() {
		hl := entity.HabitLog{}
		err = rows.Scan(&hl.ID, &hl.HabitID, &hl.LogDate, &hl.IsDone, &hl.CreatedAt)
		if err != nil {
			return nil, errors.New("habit log row parsing error: " + err.Error())
		}
		result = append(result, hl)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected habit log rows error: " + rows.Err().Error())
	}
	return result, nil
}

func (logsRepo *HabitLogsRepository) CountByHabitSince(ctx context.Context, habitID uuid.UUID, from time.Time) (int, int, error) {
	row := logsRepo.conn.QueryRow(
		ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_done) FROM habit_logs WHERE habit_id = $1 AND log_date >= $2;`,
		habitID,
		from,
	)
	var total, done int
	if err := row.Scan(&total, &done); err != nil {
		return 0, 0, errors.New("error counting habit logs: " + err.Error())
	}
	return total, done, nil
}

func (logsRepo *HabitLogsRepository) CountByUserSince(ctx context.Context, uid uuid.UUID, from time.Time) (int, int, error) {
	row := logsRepo.conn.QueryRow(
		ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE l.is_done) FROM habit_logs l JOIN habits h ON h.id = l.habit_id WHERE h.user_id = $1 AND l.log_date >= $2;`,
		uid,
		from,
	)
	var total, done int
	if err := row.Scan(&total, &done); err != nil {
		return 0, 0, errors.New("error counting user habit logs: " + err.Error())
	}
	return total, done, nil
}
