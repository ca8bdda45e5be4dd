package domain

import "time"

// Admin представляет учетную запись администратора.
// Соответствует таблице 'admins' в базе данных.
type Admin struct {
	ID           int64     `json:"id" gorm:"primaryKey" db:"id"`
	Username     string    `json:"username" gorm:"uniqueIndex" db:"username"`
	PasswordHash string    `json:"-" gorm:"column:password_hash" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (Admin) TableName() string {
	return "admins"
}
