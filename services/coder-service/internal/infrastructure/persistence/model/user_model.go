package model

import (
	"time"

	"ai-coder/services/coder-service/internal/domain"
)

type UserModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    string    `gorm:"uniqueIndex;size:36;not null;column:user_id"`
	Username  string    `gorm:"uniqueIndex;size:150;not null;column:username"`
	Email     string    `gorm:"uniqueIndex;size:254;not null;column:email"`
	FirstName string    `gorm:"size:150;column:first_name"`
	LastName  string    `gorm:"size:150;column:last_name"`
	Password  string    `gorm:"size:255;not null;column:password"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) ToDomain() *domain.User {
	return &domain.User{
		ID:        m.UserID,
		Username:  m.Username,
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Password:  m.Password,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToUserModel(d *domain.User) *UserModel {
	return &UserModel{
		UserID:    d.ID,
		Username:  d.Username,
		Email:     d.Email,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Password:  d.Password,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// All lists every table the service migrates.
func All() []any {
	return []any{&UserModel{}, &SessionModel{}, &InteractionModel{}}
}
