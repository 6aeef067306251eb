package repository

import (
	"context"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
)

type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	// List returns reports newest first; an empty status lists all.
	List(ctx context.Context, status string) ([]*entity.Report, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Subscribe(ctx context.Context, status string, onChange func([]*entity.Report)) (Subscription, error)
}
