package models

type Customer struct {
	ID     uint    `gorm:"primaryKey"`
	UserID uint    `gorm:"uniqueIndex;not null"`
	User   *User   `gorm:"foreignKey:UserID"`
	Orders []Order `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}
