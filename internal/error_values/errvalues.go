package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrEmailTaken       = errors.New("user with such email already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid token")

	ErrTaskNotFound  = errors.New("task doesn't exist")
	ErrHabitNotFound = errors.New("habit doesn't exist")
	ErrHabitHasLogs  = errors.New("habit has logged days and can't be deleted")

	// ErrSlugTaken is the store-level answer to a slug race: two creations
	// probed the same candidate and one of them lost.
	ErrSlugTaken = errors.New("slug already taken for this user")

	// ErrLogExists means the (habit, date) pair is already logged.
	ErrLogExists = errors.New("habit already logged for this date")

	ErrValidation = errors.New("validation error")
)
