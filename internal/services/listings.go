package services

import (
	"context"
	"fmt"
	"time"

	"github.com/MohdZaidRapid/BooksBackend/internal/cache"
	"github.com/MohdZaidRapid/BooksBackend/internal/domain"
	"github.com/MohdZaidRapid/BooksBackend/internal/repository"
	books_errors "github.com/MohdZaidRapid/BooksBackend/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListingService serves the read-heavy listing queries through the cache
// and keeps the cache coherent with writes by coarse pattern invalidation.
type ListingService struct {
	books  repository.BookRepository
	cache  *cache.Cache
	fanout *NotificationFanout
	logger *zap.Logger
}

func NewListingService(books repository.BookRepository, c *cache.Cache, fanout *NotificationFanout, logger *zap.Logger) *ListingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{
		books:  books,
		cache:  c,
		fanout: fanout,
		logger: logger.With(zap.String("component", "listings")),
	}
}

// Query computes a deterministic key from the query shape, serves from
// cache when possible, and populates the cache on miss with a bounded TTL.
func (s *ListingService) Query(ctx context.Context, q repository.ListingQuery) ([]domain.Book, error) {
	key := cache.QueryKey(cache.ListingQueryPrefix, q.Filters, q.Sort, q.Page, q.PageSize)
	return cache.ReadThrough(ctx, s.cache, key, s.cache.DefaultTTL(), func(ctx context.Context) ([]domain.Book, error) {
		return s.books.Query(ctx, q)
	})
}

func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (domain.Book, error) {
	return s.books.GetByID(ctx, id)
}

func (s *ListingService) Create(ctx context.Context, b *domain.Book) error {
	if err := s.books.Create(ctx, b); err != nil {
		return err
	}
	s.invalidateQueries(ctx)
	return nil
}

func (s *ListingService) Update(ctx context.Context, actorID uuid.UUID, b domain.Book) error {
	existing, err := s.books.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	if existing.ListedBy != actorID {
		return books_errors.ErrForbidden
	}
	if err := s.books.Update(ctx, b); err != nil {
		return err
	}
	s.invalidateQueries(ctx)
	return nil
}

// Delete removes a listing. A moderator removing someone else's listing
// notifies the owner; owners deleting their own get no notification.
func (s *ListingService) Delete(ctx context.Context, actorID, id uuid.UUID, moderator bool) error {
	existing, err := s.books.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.ListedBy != actorID && !moderator {
		return books_errors.ErrForbidden
	}
	if err := s.books.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateQueries(ctx)

	if moderator && existing.ListedBy != actorID && s.fanout != nil {
		_, err := s.fanout.Notify(ctx, NotifyInput{
			ReceiverID: existing.ListedBy,
			Type:       domain.NotificationModeration,
			Content:    fmt.Sprintf("Your listing %q was removed by a moderator.", existing.Title),
		})
		if err != nil {
			s.logger.Warn("moderation notification failed",
				zap.String("book_id", id.String()), zap.Error(err))
		}
	}
	return nil
}

// invalidateQueries clears every cached listing shape after a write.
// Over-invalidation within the prefix is the accepted cost of not
// tracking per-entity key dependencies.
func (s *ListingService) invalidateQueries(ctx context.Context) {
	s.cache.Invalidate(ctx, cache.ListingQueryPrefix+"*")
}

// CacheTTL exposes the bound on staleness for callers that document it.
func (s *ListingService) CacheTTL() time.Duration {
	return s.cache.DefaultTTL()
}
