package db

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrProtected = errors.New("referenced by protected rows")
)

// NotFound maps gorm's record-not-found onto ErrNotFound and leaves any other
// error untouched.
func NotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Protected reports whether err came from a restricting foreign key.
func Protected(err error) bool {
	return errors.Is(err, ErrProtected) || errors.Is(err, gorm.ErrForeignKeyViolated)
}
