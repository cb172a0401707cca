package services

import (
	"context"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/MohdZaidRapid/BooksBackend/internal/cache"
	"github.com/MohdZaidRapid/BooksBackend/internal/domain"
	"github.com/MohdZaidRapid/BooksBackend/internal/repository"
	books_errors "github.com/MohdZaidRapid/BooksBackend/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCacheStore is a minimal in-memory cache.Store for service tests.
type memCacheStore struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemCacheStore() *memCacheStore {
	return &memCacheStore{entries: make(map[string]string)}
}

func (s *memCacheStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *memCacheStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *memCacheStore) DeletePattern(_ context.Context, pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(s.entries, key)
		}
	}
	return nil
}

func newListingFixture(t *testing.T) (*ListingService, *stubBookRepo, *stubNotificationRepo) {
	t.Helper()
	books := newStubBookRepo()
	notifications := &stubNotificationRepo{}
	fanout := NewNotificationFanout(notifications, newStubPusher(), nil)
	svc := NewListingService(books, cache.New(newMemCacheStore(), time.Minute, nil), fanout, nil)
	return svc, books, notifications
}

func TestQueryCachesOnMiss(t *testing.T) {
	svc, books, _ := newListingFixture(t)
	ctx := context.Background()

	books.result = []domain.Book{{ID: uuid.New(), Title: "Dune"}}
	q := repository.ListingQuery{Filters: map[string]string{"author": "herbert"}, Sort: "newest", Page: 1, PageSize: 20}

	first, err := svc.Query(ctx, q)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.Query(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, 1, books.queryCount(), "second read served from cache")
}

func TestWriteInvalidatesCachedQueries(t *testing.T) {
	svc, books, _ := newListingFixture(t)
	ctx := context.Background()

	books.result = []domain.Book{{ID: uuid.New(), Title: "Dune"}}
	q := repository.ListingQuery{Sort: "newest", Page: 1, PageSize: 20}

	_, err := svc.Query(ctx, q)
	require.NoError(t, err)
	require.Equal(t, 1, books.queryCount())

	owner := uuid.New()
	require.NoError(t, svc.Create(ctx, &domain.Book{Title: "Hyperion", ListedBy: owner}))

	_, err = svc.Query(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 2, books.queryCount(), "create forces a fresh authoritative read")
}

func TestUpdateRequiresOwnership(t *testing.T) {
	svc, books, _ := newListingFixture(t)
	ctx := context.Background()

	owner := uuid.New()
	book := domain.Book{ID: uuid.New(), Title: "Dune", ListedBy: owner}
	require.NoError(t, books.Create(ctx, &book))

	err := svc.Update(ctx, uuid.New(), book)
	assert.ErrorIs(t, err, books_errors.ErrForbidden)

	require.NoError(t, svc.Update(ctx, owner, book))
}

func TestModeratorDeleteNotifiesOwner(t *testing.T) {
	svc, books, notifications := newListingFixture(t)
	ctx := context.Background()

	owner := uuid.New()
	moderator := uuid.New()
	book := domain.Book{ID: uuid.New(), Title: "Dune", ListedBy: owner}
	require.NoError(t, books.Create(ctx, &book))

	require.NoError(t, svc.Delete(ctx, moderator, book.ID, true))

	all := notifications.all()
	require.Len(t, all, 1)
	assert.Equal(t, owner, all[0].ReceiverID)
	assert.Equal(t, domain.NotificationModeration, all[0].Type)
}

func TestOwnerDeleteSkipsNotification(t *testing.T) {
	svc, books, notifications := newListingFixture(t)
	ctx := context.Background()

	owner := uuid.New()
	book := domain.Book{ID: uuid.New(), Title: "Dune", ListedBy: owner}
	require.NoError(t, books.Create(ctx, &book))

	require.NoError(t, svc.Delete(ctx, owner, book.ID, false))
	assert.Empty(t, notifications.all())
}

func TestStrangerDeleteForbidden(t *testing.T) {
	svc, books, _ := newListingFixture(t)
	ctx := context.Background()

	book := domain.Book{ID: uuid.New(), Title: "Dune", ListedBy: uuid.New()}
	require.NoError(t, books.Create(ctx, &book))

	err := svc.Delete(ctx, uuid.New(), book.ID, false)
	assert.ErrorIs(t, err, books_errors.ErrForbidden)
}
