package models

import (
	"strings"
	"time"
)

const starGlyph = "★"

type Review struct {
	ID        uint      `gorm:"primaryKey"`
	ProductID uint      `gorm:"index;not null"`
	Name      string    `gorm:"size:128;not null"`
	Content   string    `gorm:"type:text;not null"`
	Rating    uint8     `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	CreatedAt time.Time `gorm:"index"`
}

// Stars renders the rating as a row of star glyphs.
func (r Review) Stars() string {
	return strings.Repeat(starGlyph, int(r.Rating))
}
