package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	ID         uint        `gorm:"primaryKey"`
	Reference  uuid.UUID   `gorm:"type:uuid;uniqueIndex;not null"`
	CustomerID uint        `gorm:"index;not null"`
	Customer   *Customer   `gorm:"foreignKey:CustomerID"`
	CreatedAt  time.Time   `gorm:"index"`
	Lines      []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.Reference == uuid.Nil {
		o.Reference = uuid.New()
	}
	return nil
}

// Quantity is the total number of items over all lines.
func (o Order) Quantity() int {
	var n int
	for _, l := range o.Lines {
		n += int(l.Quantity)
	}
	return n
}

// OrderLine is one product of an order together with its ordered quantity.
type OrderLine struct {
	ID        uint     `gorm:"primaryKey"`
	OrderID   uint     `gorm:"index;not null"`
	ProductID uint     `gorm:"index;not null"`
	Product   *Product `gorm:"foreignKey:ProductID"`
	Quantity  uint     `gorm:"not null;check:quantity >= 1"`
}
