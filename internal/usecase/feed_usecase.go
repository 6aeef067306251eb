package usecase

import (
	"context"
	"sync"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/internal/domain/service"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/metrics"
	"github.com/rohit30san/thapar-olx/pkg/errors"
)

// Badges are the navigation counters. Every field is recomputed from the
// full result sets on each change.
type Badges struct {
	OpenDeals     int `json:"open_deals"`
	Conversations int `json:"conversations"`
	OpenReports   int `json:"open_reports"`
}

// FeedUseCase opens live queries for websocket clients. Every handle it
// returns must be closed when the client goes away.
type FeedUseCase struct {
	listingRepo repository.ListingRepository
	dealRepo    repository.DealRepository
	convRepo    repository.ConversationRepository
	reportRepo  repository.ReportRepository
	policy      *service.Policy
	metrics     *metrics.Metrics
}

func NewFeedUseCase(
	listingRepo repository.ListingRepository,
	dealRepo repository.DealRepository,
	convRepo repository.ConversationRepository,
	reportRepo repository.ReportRepository,
	policy *service.Policy,
	m *metrics.Metrics,
) *FeedUseCase {
	return &FeedUseCase{
		listingRepo: listingRepo,
		dealRepo:    dealRepo,
		convRepo:    convRepo,
		reportRepo:  reportRepo,
		policy:      policy,
		metrics:     m,
	}
}

// subscriptionGroup closes several store subscriptions as one.
type subscriptionGroup struct {
	once    sync.Once
	subs    []repository.Subscription
	metrics *metrics.Metrics
}

func (g *subscriptionGroup) add(sub repository.Subscription) {
	g.subs = append(g.subs, sub)
}

func (g *subscriptionGroup) Close() {
	g.once.Do(func() {
		for _, sub := range g.subs {
			sub.Close()
		}
		g.metrics.SubscriptionClosed()
	})
}

func (uc *FeedUseCase) track(subs ...repository.Subscription) repository.Subscription {
	group := &subscriptionGroup{metrics: uc.metrics}
	for _, sub := range subs {
		group.add(sub)
	}
	uc.metrics.SubscriptionOpened()
	return group
}

func (uc *FeedUseCase) WatchListings(ctx context.Context, filter repository.ListingFilter, onChange func([]*entity.Listing)) (repository.Subscription, error) {
	if filter.Status == "" {
		filter.Status = entity.ListingAvailable
	}
	sub, err := uc.listingRepo.Subscribe(ctx, filter, onChange)
	if err != nil {
		return nil, err
	}
	return uc.track(sub), nil
}

func (uc *FeedUseCase) WatchConversations(ctx context.Context, userID string, onChange func([]*entity.Conversation)) (repository.Subscription, error) {
	sub, err := uc.convRepo.SubscribeByParticipant(ctx, userID, onChange)
	if err != nil {
		return nil, err
	}
	return uc.track(sub), nil
}

func (uc *FeedUseCase) WatchMessages(ctx context.Context, userID, conversationID string, onChange func([]*entity.Message)) (repository.Subscription, error) {
	conversation, err := uc.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, errors.PermissionDenied("You are not a participant of this conversation")
	}

	sub, err := uc.convRepo.SubscribeMessages(ctx, conversationID, onChange)
	if err != nil {
		return nil, err
	}
	return uc.track(sub), nil
}

// WatchBadges combines the buyer deals, seller deals, conversation and (for
// admins) open report queries into one counter feed.
func (uc *FeedUseCase) WatchBadges(ctx context.Context, actor *entity.Actor, onChange func(Badges)) (repository.Subscription, error) {
	var (
		mu              sync.Mutex
		buying, selling int
		conversations   int
		openReports     int
		ready           bool
	)

	// mu is held through onChange so frames leave in the order the counters
	// changed; the store runs listeners on separate goroutines.
	emit := func(update func()) {
		mu.Lock()
		defer mu.Unlock()
		update()
		if ready {
			onChange(Badges{
				OpenDeals:     buying + selling,
				Conversations: conversations,
				OpenReports:   openReports,
			})
		}
	}

	countOpen := func(deals []*entity.Deal) int {
		n := 0
		for _, d := range deals {
			if d.IsOpen() {
				n++
			}
		}
		return n
	}

	var subs []repository.Subscription
	closeAll := func() {
		for _, s := range subs {
			s.Close()
		}
	}

	sub, err := uc.dealRepo.SubscribeByUser(ctx, actor.ID, false, func(deals []*entity.Deal) {
		emit(func() { buying = countOpen(deals) })
	})
	if err != nil {
		return nil, err
	}
	subs = append(subs, sub)

	sub, err = uc.dealRepo.SubscribeByUser(ctx, actor.ID, true, func(deals []*entity.Deal) {
		emit(func() { selling = countOpen(deals) })
	})
	if err != nil {
		closeAll()
		return nil, err
	}
	subs = append(subs, sub)

	sub, err = uc.convRepo.SubscribeByParticipant(ctx, actor.ID, func(convs []*entity.Conversation) {
		emit(func() { conversations = len(convs) })
	})
	if err != nil {
		closeAll()
		return nil, err
	}
	subs = append(subs, sub)

	if uc.policy.IsAdmin(actor) {
		sub, err = uc.reportRepo.Subscribe(ctx, entity.ReportOpen, func(reports []*entity.Report) {
			emit(func() { openReports = len(reports) })
		})
		if err != nil {
			closeAll()
			return nil, err
		}
		subs = append(subs, sub)
	}

	// Subscribe delivers the initial snapshot before returning, so every
	// counter is populated here.
	emit(func() { ready = true })

	return uc.track(subs...), nil
}
