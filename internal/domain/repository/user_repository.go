package repository

import (
	"context"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	ListDisabled(ctx context.Context) ([]*entity.User, error)
	SetDisabled(ctx context.Context, id string, disabled bool) error
	SetRole(ctx context.Context, id, role string) error
	SetDisplayName(ctx context.Context, id, displayName string) error
}
