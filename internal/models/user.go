package models

import "time"

type User struct {
	BaseModel
	Name         string     `gorm:"column:nome;size:255;not null"`
	Email        string     `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:hashed_password;size:255;not null"`
	Role         string     `gorm:"size:50;not null"`
	Phone        *string    `gorm:"column:telefone;size:20"`
	LicenseID    *string    `gorm:"column:crm;size:20;uniqueIndex"`
	IsActive     bool       `gorm:"not null"`
	LastLogin    *time.Time `gorm:"column:last_login"`

	// Relations
	ResetTokens []PasswordResetToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

// PasswordResetToken - одноразовый код восстановления. Хранится только хеш кода.
type PasswordResetToken struct {
	BaseModel
	UserID    uint      `gorm:"not null;index"`
	TokenHash string    `gorm:"size:255;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Used      bool      `gorm:"column:is_used;not null;index"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// IsUsable - код можно использовать, пока он не погашен и now <= expires_at
func (t *PasswordResetToken) IsUsable(now time.Time) bool {
	return !t.Used && !now.After(t.ExpiresAt)
}
