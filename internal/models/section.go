package models

type Section struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"size:128;not null" json:"name"`
	Slug       string     `gorm:"size:128;uniqueIndex;not null" json:"slug"`
	Categories []Category `gorm:"foreignKey:SectionID;constraint:OnDelete:RESTRICT" json:"categories,omitempty"`
}
