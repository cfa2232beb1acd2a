package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	portsrepo "github.com/shawqlabs/fxn_backend/internal/core/ports/repositories"
	"github.com/shawqlabs/fxn_backend/internal/core/services"
)

// --- Mock UsageRepository ---
type MockUsageRepository struct {
	mock.Mock
	mu     sync.Mutex
	events []domain.UsageEvent
}

var _ portsrepo.UsageRepositoryFacade = (*MockUsageRepository)(nil)

func (m *MockUsageRepository) InsertUsage(ctx context.Context, ev domain.UsageEvent) error {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockUsageRepository) CountByProvider(ctx context.Context, from, to time.Time) (map[domain.ProviderName]int64, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ProviderName]int64), args.Error(1)
}

func (m *MockUsageRepository) recorded() []domain.UsageEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.UsageEvent, len(m.events))
	copy(out, m.events)
	return out
}

func TestUsageLoggerPersistsEvents(t *testing.T) {
	repo := new(MockUsageRepository)
	repo.On("InsertUsage", mock.Anything, mock.AnythingOfType("domain.UsageEvent")).Return(nil)

	logger := services.NewUsageLogger(repo, nil)
	logger.Record(context.Background(), domain.NewUsageSuccess(domain.ProviderCurrencyFreaks, domain.UsageLatest, nil, 200))
	logger.Record(context.Background(), domain.NewUsageSuccess(domain.ProviderOXR, domain.UsageHistorical, nil, 200))
	logger.Close()

	events := repo.recorded()
	assert.Len(t, events, 2)
	for _, ev := range events {
		assert.NotEmpty(t, ev.UsageID, "ids are filled in before persisting")
		assert.False(t, ev.CreatedAt.IsZero())
	}
}

func TestUsageLoggerSwallowsInsertFailures(t *testing.T) {
	repo := new(MockUsageRepository)
	repo.On("InsertUsage", mock.Anything, mock.AnythingOfType("domain.UsageEvent")).
		Return(assert.AnError)

	logger := services.NewUsageLogger(repo, nil)
	logger.Record(context.Background(), domain.NewUsageSuccess(domain.ProviderCurrencyFreaks, domain.UsageLatest, nil, 200))

	// Close drains the queue; a failed insert must not panic or block.
	logger.Close()
	assert.Len(t, repo.recorded(), 1)
}
