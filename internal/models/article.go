package models

import "time"

type Article struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:128;not null"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`
	Products  []Product `gorm:"many2many:article_products;constraint:OnDelete:CASCADE"`
}
