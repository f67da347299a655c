package models

type Product struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"size:128;not null" json:"name"`
	Slug        string      `gorm:"size:128;uniqueIndex;not null" json:"slug"`
	Description string      `gorm:"size:256;not null" json:"description"`
	Image       string      `gorm:"size:256" json:"image,omitempty"` // relative to the media root, may be empty
	CategoryID  uint        `gorm:"index;not null" json:"category_id"`
	Category    *Category   `json:"category,omitempty"`
	Reviews     []Review    `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"reviews,omitempty"`
	OrderLines  []OrderLine `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
}
