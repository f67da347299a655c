package events

import (
	"gorm.io/gorm"

	"github.com/Keoroanthony/go-storefront/internal/models"
)

// UserSaved is published after a principal row is written. Tx is the
// transaction that wrote it; subscribers must write through it so their rows
// commit or roll back together with the principal.
type UserSaved struct {
	Tx      *gorm.DB
	User    models.User
	Created bool
}

// OrderPlaced is published after an order has been committed.
type OrderPlaced struct {
	Order models.Order
	User  models.User
}
