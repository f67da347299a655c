package models

import "time"

// User is the authentication principal. Shoppers reach the domain through
// the Customer linked to it.
type User struct {
	ID           uint    `gorm:"primaryKey"`
	Username     string  `gorm:"size:150;uniqueIndex;not null"`
	Email        string  `gorm:"size:254;index"`
	PasswordHash string  `gorm:"size:255" json:"-"`
	OIDCSubject  *string `gorm:"column:oidc_subject;size:255;uniqueIndex"` // OpenID Connect identifier
	Name         string  `gorm:"size:255"`
	Phone        string  `gorm:"size:32"`
	IsStaff      bool    `gorm:"not null;default:false"`
	CreatedAt    time.Time
	Customer     *Customer `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
