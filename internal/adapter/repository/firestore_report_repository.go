package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
)

type firestoreReportRepository struct {
	client *firestore.Client
}

func NewFirestoreReportRepository(client *firestore.Client) repository.ReportRepository {
	return &firestoreReportRepository{
		client: client,
	}
}

func setReportID(r *entity.Report, id string) { r.ID = id }

func (r *firestoreReportRepository) Create(ctx context.Context, report *entity.Report) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	wr, err := r.client.Collection(reportsCollection).Doc(report.ID).Set(ctx, report)
	commitTime(wr, &report.CreatedAt)
	return storeError("Report", err)
}

func (r *firestoreReportRepository) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	doc, err := r.client.Collection(reportsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, storeError("Report", err)
	}

	report, err := decodeOne[entity.Report](doc, "report")
	if err != nil {
		return nil, err
	}
	report.ID = doc.Ref.ID
	return report, nil
}

func (r *firestoreReportRepository) query(status string) firestore.Query {
	q := r.client.Collection(reportsCollection).Query
	if status != "" {
		// Only the unordered form is indexed; the admin list orders itself.
		return q.Where("status", "==", status)
	}
	return q.OrderBy("createdAt", firestore.Desc)
}

func (r *firestoreReportRepository) List(ctx context.Context, status string) ([]*entity.Report, error) {
	reports, err := decodeAll[entity.Report](r.query(status).Documents(ctx), "report", setReportID)
	if err != nil {
		return nil, err
	}
	newestReportsFirst(reports)
	return reports, nil
}

func (r *firestoreReportRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.client.Collection(reportsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: status},
	})
	return storeError("Report", err)
}

func (r *firestoreReportRepository) Subscribe(ctx context.Context, status string, onChange func([]*entity.Report)) (repository.Subscription, error) {
	return watchQuery(ctx, r.query(status), "report", setReportID, func(reports []*entity.Report) {
		newestReportsFirst(reports)
		onChange(reports)
	})
}

func newestReportsFirst(reports []*entity.Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
}
