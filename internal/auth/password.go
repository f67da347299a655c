package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Keoroanthony/go-storefront/internal/db"
	"github.com/Keoroanthony/go-storefront/internal/events"
	"github.com/Keoroanthony/go-storefront/internal/models"
	"github.com/Keoroanthony/go-storefront/internal/validation"
)

const minPasswordLen = 8

var ErrInvalidCredentials = errors.New("invalid email or password")

const (
	msgEmailRequired   = "email is required"
	msgEmailInvalid    = "enter a valid email address"
	msgEmailTaken      = "a user with this email is already registered"
	msgPasswordShort   = "password must be at least 8 characters"
	msgPasswordsDiffer = "the two password fields didn't match"
	msgUnknownEmail    = "no customer is registered with this email"
	msgBadCredentials  = "invalid email or password"
)

type SignupInput struct {
	Email     string `form:"email"`
	Password1 string `form:"password1"`
	Password2 string `form:"password2"`
}

type LoginInput struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// CreateUser inserts u through tx and announces it, so that subscribers such as
// customer provisioning write in the same transaction.
func CreateUser(ctx context.Context, tx *gorm.DB, bus *events.Bus, u *models.User) error {
	const op = "auth.CreateUser"

	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := events.Publish(ctx, bus, events.UserSaved{Tx: tx, User: *u, Created: true}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveUser updates an existing principal and announces it.
func SaveUser(ctx context.Context, tx *gorm.DB, bus *events.Bus, u *models.User) error {
	const op = "auth.SaveUser"

	if err := tx.WithContext(ctx).Save(u).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := events.Publish(ctx, bus, events.UserSaved{Tx: tx, User: *u, Created: false}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Register signs up a shopper. The email doubles as the username.
func Register(ctx context.Context, gdb *gorm.DB, bus *events.Bus, in SignupInput) (models.User, error) {
	const op = "auth.Register"

	email := normalizeEmail(in.Email)
	ve := validation.Errors{}

	switch {
	case email == "":
		ve.Add("email", msgEmailRequired)
	case !validEmail(email):
		ve.Add("email", msgEmailInvalid)
	default:
		taken, err := emailTaken(ctx, gdb, email)
		if err != nil {
			return models.User{}, fmt.Errorf("%s: %w", op, err)
		}
		if taken {
			ve.Add("email", msgEmailTaken)
		}
	}

	if len(in.Password1) < minPasswordLen {
		ve.Add("password1", msgPasswordShort)
	}
	if in.Password1 != in.Password2 {
		ve.Add("password2", msgPasswordsDiffer)
	}
	if err := ve.Err(); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password1), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	u := models.User{Username: email, Email: email, PasswordHash: string(hash)}
	err = gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return CreateUser(ctx, tx, bus, &u)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ve.Add("email", msgEmailTaken)
			return models.User{}, fmt.Errorf("%s: %w", op, ve)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Authenticate checks an email and password pair. Failures come back as
// validation errors for the login form, wrapping ErrInvalidCredentials.
func Authenticate(ctx context.Context, gdb *gorm.DB, in LoginInput) (models.User, error) {
	const op = "auth.Authenticate"

	email := normalizeEmail(in.Email)
	ve := validation.Errors{}
	if email == "" {
		ve.Add("email", msgEmailRequired)
	}
	if in.Password == "" {
		ve.Add("password", "password is required")
	}
	if err := ve.Err(); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	var u models.User
	err := gdb.WithContext(ctx).Where("email = ?", email).Order("id").First(&u).Error
	if err != nil {
		if errors.Is(db.NotFound(err), db.ErrNotFound) {
			ve.Add(validation.NonField, msgUnknownEmail)
			return models.User{}, fmt.Errorf("%s: %w: %w", op, ve, ErrInvalidCredentials)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		ve.Add(validation.NonField, msgBadCredentials)
		return models.User{}, fmt.Errorf("%s: %w: %w", op, ve, ErrInvalidCredentials)
	}
	return u, nil
}

func emailTaken(ctx context.Context, gdb *gorm.DB, email string) (bool, error) {
	var n int64
	err := gdb.WithContext(ctx).Model(&models.User{}).
		Where("email = ? OR username = ?", email, email).
		Count(&n).Error
	return n > 0, err
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}
