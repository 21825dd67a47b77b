package service

import (
	"errors"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	errorvalues "github.com/daniilk04/tracker/internal/error_values"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("alphanum_underscore", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			for i, char := range value {
				// Cannot be started with a digit or underscore
				if i == 0 && (unicode.IsDigit(char) || char == '_') {
					return false
				}
				// Digits, letters or underscore
				if !unicode.IsLetter(char) && !unicode.IsDigit(char) && char != '_' {
					return false
				}
			}
			return true
		})
	})
}

// validationError flattens validator field errors into one error that still
// matches errorvalues.ErrValidation via errors.Is.
func validationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		joined := errorvalues.ErrValidation
		for _, fieldErr := range validationErrs {
			joined = errors.Join(joined, fieldErr)
		}
		return joined
	}
	return errors.New("validation unexpected error: " + err.Error())
}

// dateOnly drops the clock part, keeping only the calendar date in UTC.
// All deadline / start date / log date comparisons go through it.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
