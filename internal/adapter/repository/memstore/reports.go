package memstore

import (
	"context"
	"sort"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/pkg/errors"
)

type ReportRepository struct {
	s *Store
}

func (r *ReportRepository) Create(ctx context.Context, report *entity.Report) error {
	r.s.mu.Lock()
	if report.ID == "" {
		report.ID = newID()
	}
	report.CreatedAt = r.s.now()
	cp := *report
	r.s.reports[report.ID] = &cp
	r.s.mu.Unlock()

	r.s.notify(kindReport)
	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rp, ok := r.s.reports[id]
	if !ok {
		return nil, errors.NotFound("Report", nil)
	}
	cp := *rp
	return &cp, nil
}

func (r *ReportRepository) List(ctx context.Context, status string) ([]*entity.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.Report
	for _, rp := range r.s.reports {
		if status == "" || rp.Status == status {
			cp := *rp
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ReportRepository) UpdateStatus(ctx context.Context, id, status string) error {
	r.s.mu.Lock()
	rp, ok := r.s.reports[id]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("Report", nil)
	}
	rp.Status = status
	r.s.mu.Unlock()

	r.s.notify(kindReport)
	return nil
}

func (r *ReportRepository) Subscribe(ctx context.Context, status string, onChange func([]*entity.Report)) (repository.Subscription, error) {
	return r.s.watch(kindReport, func() {
		reports, _ := r.List(ctx, status)
		onChange(reports)
	}), nil
}
