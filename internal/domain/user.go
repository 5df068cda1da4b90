package domain

import (
	"time"
)

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID           int64     `json:"userId" db:"id" gorm:"primaryKey"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
}

// TableName задаёт имя таблицы для GORM.
func (User) TableName() string {
	return "users"
}
