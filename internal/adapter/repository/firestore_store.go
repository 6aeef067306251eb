package repository

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/pkg/errors"
	"github.com/rohit30san/thapar-olx/pkg/logger"
)

const (
	usersCollection         = "users"
	listingsCollection      = "listings"
	dealsCollection         = "deals"
	conversationsCollection = "conversations"
	messagesCollection      = "messages"
	reviewsCollection       = "reviews"
	reportsCollection       = "reports"
)

// Ping reads at most one user document to prove the project is reachable.
func Ping(ctx context.Context, client *firestore.Client) error {
	_, err := client.Collection(usersCollection).Limit(1).Documents(ctx).GetAll()
	return err
}

// storeError maps a Firestore failure onto the application error taxonomy.
func storeError(resource string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}

	switch status.Code(err) {
	case codes.NotFound:
		return errors.NotFound(resource, err)
	case codes.Unavailable, codes.DeadlineExceeded, codes.Aborted, codes.ResourceExhausted:
		return errors.TransientStoreFailure("The database is temporarily unavailable. Please try again", err)
	case codes.PermissionDenied:
		return errors.Forbidden("The database rejected this request", err)
	}
	return errors.Internal("Failed to access "+resource, err)
}

// decodeAll drains a document iterator into typed records. setID receives the
// document id for records whose struct does not carry it.
func decodeAll[T any](iter *firestore.DocumentIterator, resource string, setID func(*T, string)) ([]*T, error) {
	defer iter.Stop()

	var out []*T
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, storeError(resource, err)
		}

		var record T
		if err := doc.DataTo(&record); err != nil {
			return nil, errors.Internal("Failed to parse "+resource+" data", err)
		}
		if setID != nil {
			setID(&record, doc.Ref.ID)
		}
		out = append(out, &record)
	}
	return out, nil
}

func decodeOne[T any](doc *firestore.DocumentSnapshot, resource string) (*T, error) {
	var record T
	if err := doc.DataTo(&record); err != nil {
		return nil, errors.Internal("Failed to parse "+resource+" data", err)
	}
	return &record, nil
}

// snapshotSubscription streams query snapshots until closed.
type snapshotSubscription struct {
	iter   *firestore.QuerySnapshotIterator
	cancel context.CancelFunc
	once   sync.Once
}

func (s *snapshotSubscription) Close() {
	s.once.Do(func() {
		s.cancel()
		s.iter.Stop()
	})
}

// watchQuery subscribes to q and calls onChange with the decoded full result
// set. The first snapshot is delivered before watchQuery returns so callers
// start from a complete view; later ones arrive on a background goroutine.
func watchQuery[T any](ctx context.Context, q firestore.Query, resource string, setID func(*T, string), onChange func([]*T)) (repository.Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	iter := q.Snapshots(ctx)

	deliver := func(snap *firestore.QuerySnapshot) error {
		records, err := decodeAll[T](snap.Documents, resource, setID)
		if err != nil {
			return err
		}
		onChange(records)
		return nil
	}

	first, err := iter.Next()
	if err != nil {
		iter.Stop()
		cancel()
		return nil, storeError(resource, err)
	}
	if err := deliver(first); err != nil {
		iter.Stop()
		cancel()
		return nil, err
	}

	go func() {
		for {
			snap, err := iter.Next()
			if err != nil {
				if err == iterator.Done || status.Code(err) == codes.Canceled || ctx.Err() != nil {
					return
				}
				logger.Warn("Snapshot listener on %s stopped: %v", resource, err)
				return
			}
			if err := deliver(snap); err != nil {
				logger.Warn("Dropping %s snapshot: %v", resource, err)
			}
		}
	}()

	return &snapshotSubscription{iter: iter, cancel: cancel}, nil
}

// commitTime copies the write's commit time into timestamps left zero. Those
// fields carry the serverTimestamp option, so the stored value is the same.
func commitTime(wr *firestore.WriteResult, fields ...*time.Time) {
	if wr == nil {
		return
	}
	for _, f := range fields {
		if f.IsZero() {
			*f = wr.UpdateTime
		}
	}
}
