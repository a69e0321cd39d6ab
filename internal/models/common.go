package models

import "time"

// BaseModel - общие поля всех таблиц. CreatedAt заполняет сервис
// из инжектированных часов, gorm подставляет время только если поле пустое.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

// All возвращает модели в порядке создания таблиц (для AutoMigrate)
func All() []any {
	return []any{
		&User{},
		&PasswordResetToken{},
		&Patient{},
		&Appointment{},
		&Transaction{},
	}
}
