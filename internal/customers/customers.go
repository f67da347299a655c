// Package customers provisions the domain Customer behind each principal.
package customers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Keoroanthony/go-storefront/internal/db"
	"github.com/Keoroanthony/go-storefront/internal/events"
	"github.com/Keoroanthony/go-storefront/internal/models"
)

var ErrNotCustomer = errors.New("user is not a customer")

// Register subscribes the provisioning handler. Call it once at start up.
func Register(bus *events.Bus) {
	events.Subscribe(bus, OnUserSaved)
}

// OnUserSaved creates the Customer of a freshly created principal that has an
// email. Updates and principals without email are ignored.
func OnUserSaved(ctx context.Context, ev events.UserSaved) error {
	const op = "customers.OnUserSaved"

	if !ev.Created || ev.User.Email == "" {
		return nil
	}

	if _, err := provision(ctx, ev.Tx, ev.User.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	slog.Debug("customer provisioned", "op", op, "user_id", ev.User.ID)
	return nil
}

func provision(ctx context.Context, tx *gorm.DB, userID uint) (models.Customer, error) {
	c := models.Customer{UserID: userID}
	err := tx.WithContext(ctx).
		Where(models.Customer{UserID: userID}).
		FirstOrCreate(&c).Error
	return c, err
}

// Sweep provisions every principal that has an email but no Customer, such as
// users loaded in bulk without going through the event bus. It returns the
// number of customers created.
func Sweep(ctx context.Context, gdb *gorm.DB) (int, error) {
	const op = "customers.Sweep"
	log := slog.With("op", op)

	var users []models.User
	err := gdb.WithContext(ctx).
		Where("email <> ''").
		Where("NOT EXISTS (SELECT 1 FROM customers WHERE customers.user_id = users.id)").
		Order("id").
		Find(&users).Error
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	created := 0
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return created, fmt.Errorf("%s: %w", op, err)
		}
		if _, err := provision(ctx, gdb, u.ID); err != nil {
			return created, fmt.Errorf("%s: user %d: %w", op, u.ID, err)
		}
		created++
	}

	log.Info("sweep finished", "created", created)
	return created, nil
}

// ForUser returns the Customer of a principal with its User loaded.
func ForUser(ctx context.Context, gdb *gorm.DB, userID uint) (models.Customer, error) {
	const op = "customers.ForUser"

	var c models.Customer
	err := gdb.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&c).Error
	if err != nil {
		if errors.Is(db.NotFound(err), db.ErrNotFound) {
			return models.Customer{}, fmt.Errorf("%s: %w", op, ErrNotCustomer)
		}
		return models.Customer{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}
