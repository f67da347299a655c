// Package reviews validates and stores product reviews.
package reviews

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/Keoroanthony/go-storefront/internal/models"
	"github.com/Keoroanthony/go-storefront/internal/validation"
)

const (
	MinRating = 1
	MaxRating = 5

	minNameLen = 2
	maxNameLen = 128
)

const (
	msgNameLength  = "name must be between 2 and 128 characters"
	msgContent     = "a review must give a substantive opinion about the product"
	msgContentMiss = "content is required"
	msgRating      = "rating must be between 1 and 5"
)

type Input struct {
	Name    string `form:"name"`
	Content string `form:"content"`
	Rating  int    `form:"rating"`
}

// Validate checks the input without touching storage.
func (in Input) Validate() error {
	ve := validation.Errors{}

	name := strings.TrimSpace(in.Name)
	if n := utf8.RuneCountInString(name); n < minNameLen || n > maxNameLen {
		ve.Add("name", msgNameLength)
	}

	if strings.TrimSpace(in.Content) == "" {
		ve.Add("content", msgContentMiss)
	} else if !Substantive(in.Content) {
		ve.Add("content", msgContent)
	}

	if in.Rating < MinRating || in.Rating > MaxRating {
		ve.Add("rating", msgRating)
	}

	return ve.Err()
}

// Substantive reports whether content has at least two whitespace separated
// words and at least one of them is longer than a single character.
func Substantive(content string) bool {
	words := strings.Fields(content)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if utf8.RuneCountInString(w) > 1 {
			return true
		}
	}
	return false
}

// Submit validates in and stores it as a review of product.
func Submit(ctx context.Context, gdb *gorm.DB, product models.Product, in Input) (models.Review, error) {
	const op = "reviews.Submit"

	if err := in.Validate(); err != nil {
		return models.Review{}, fmt.Errorf("%s: %w", op, err)
	}

	r := models.Review{
		ProductID: product.ID,
		Name:      strings.TrimSpace(in.Name),
		Content:   in.Content,
		Rating:    uint8(in.Rating),
	}
	if err := gdb.WithContext(ctx).Create(&r).Error; err != nil {
		return models.Review{}, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// Stars renders a rating as a row of star glyphs. Ratings outside 0..MaxRating
// are clamped.
func Stars(rating int) string {
	rating = min(max(rating, 0), MaxRating)
	return models.Review{Rating: uint8(rating)}.Stars()
}
