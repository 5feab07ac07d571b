package entity

import (
	"context"
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("usuário não encontrado")

// User é um membro da equipe que pode ser dono de leads
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	ListActive(ctx context.Context) ([]*User, error)
}

// LeadGroup agrupa leads para filtro de campanha
type LeadGroup struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsCustom    bool      `json:"is_custom"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type GroupRepositoryInterface interface {
	List(ctx context.Context) ([]*LeadGroup, error)
}
