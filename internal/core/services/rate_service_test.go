package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/shawqlabs/fxn_backend/internal/apperrors"
	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	portsprov "github.com/shawqlabs/fxn_backend/internal/core/ports/providers"
	portsrepo "github.com/shawqlabs/fxn_backend/internal/core/ports/repositories"
	portssvc "github.com/shawqlabs/fxn_backend/internal/core/ports/services"
	"github.com/shawqlabs/fxn_backend/internal/core/services"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
)

// --- Mock RateRepository ---
type MockRateRepository struct {
	mock.Mock
}

var _ portsrepo.RateRepositoryFacade = (*MockRateRepository)(nil)

func (m *MockRateRepository) GetRate(ctx context.Context, pair domain.CurrencyPair, date time.Time) (*domain.RateRecord, error) {
	args := m.Called(ctx, pair, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateRecord), args.Error(1)
}

func (m *MockRateRepository) UpsertRate(ctx context.Context, rec domain.RateRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRateRepository) ListRecent(ctx context.Context, pair domain.CurrencyPair, limit int) ([]domain.RateRecord, error) {
	args := m.Called(ctx, pair, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateRecord), args.Error(1)
}

func (m *MockRateRepository) ListWindow(ctx context.Context, pair domain.CurrencyPair, start, end time.Time) ([]domain.RateRecord, error) {
	args := m.Called(ctx, pair, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateRecord), args.Error(1)
}

func (m *MockRateRepository) ExistingDates(ctx context.Context, pair domain.CurrencyPair, start, end time.Time) (map[string]struct{}, error) {
	args := m.Called(ctx, pair, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

// --- Stub StrategyService ---
type stubStrategy struct {
	strat domain.ProviderStrategy
}

func (s stubStrategy) Resolve() domain.ProviderStrategy { return s.strat }

// --- Mock RateFetcher ---
type MockRateFetcher struct {
	mock.Mock
	name domain.ProviderName
	caps portsprov.Capabilities
}

var _ portsprov.RateFetcher = (*MockRateFetcher)(nil)

func (m *MockRateFetcher) Name() domain.ProviderName { return m.name }

func (m *MockRateFetcher) Capabilities() portsprov.Capabilities { return m.caps }

func (m *MockRateFetcher) Configured() bool { return true }

func (m *MockRateFetcher) FetchLatest(ctx context.Context) (*domain.ProviderRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderRate), args.Error(1)
}

func (m *MockRateFetcher) FetchHistorical(ctx context.Context, date time.Time) (*domain.ProviderRate, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderRate), args.Error(1)
}

func (m *MockRateFetcher) FetchTimeseries(ctx context.Context, start, end time.Time) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

// --- Test Suite ---
type RateServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockRateRepository
	mockPrimary *MockRateFetcher
	mockBackup  *MockRateFetcher
	restoreNow  func()
}

func (suite *RateServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockRateRepository)
	suite.mockPrimary = &MockRateFetcher{name: domain.ProviderCurrencyFreaks, caps: portsprov.Capabilities{Latest: true, Historical: true, Timeseries: true}}
	suite.mockBackup = &MockRateFetcher{name: domain.ProviderOXR, caps: portsprov.Capabilities{Historical: true}}
	suite.restoreNow = dateutil.SetNowFunc(func() time.Time {
		return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	})
}

func (suite *RateServiceTestSuite) TearDownTest() {
	suite.restoreNow()
}

func (suite *RateServiceTestSuite) newService(strat domain.ProviderStrategy) portssvc.RateSvcFacade {
	fetchers := map[domain.ProviderName]portsprov.RateFetcher{
		suite.mockPrimary.name: suite.mockPrimary,
		suite.mockBackup.name:  suite.mockBackup,
	}
	return services.NewRateService(suite.mockRepo, stubStrategy{strat: strat}, fetchers, time.Minute)
}

func (suite *RateServiceTestSuite) defaultStrategy() domain.ProviderStrategy {
	return domain.ProviderStrategy{
		Daily:             domain.ProviderCurrencyFreaks,
		PrimaryBackfill:   domain.ProviderCurrencyFreaks,
		SecondaryBackfill: domain.ProviderOXR,
		Sources:           map[domain.Tier]domain.StrategySource{},
	}
}

func day(s string) time.Time {
	d, err := dateutil.Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (suite *RateServiceTestSuite) TestResolve_StoredHitIsCached() {
	ctx := context.Background()
	d := day("2024-06-10")
	rec := &domain.RateRecord{
		FromCurrency: "TRY", ToCurrency: "USD",
		Rate: decimal.RequireFromString("0.0308"), Date: d,
		Source: domain.ProviderCurrencyFreaks,
	}
	suite.mockRepo.On("GetRate", ctx, domain.PairTRYUSD, d).Return(rec, nil).Once()

	svc := suite.newService(suite.defaultStrategy())

	got, err := svc.Resolve(ctx, d)
	suite.Require().NoError(err)
	suite.Require().NotNil(got)
	suite.True(rec.Rate.Equal(got.Rate))

	// Second lookup is served from the cache; GetRate was consumed by Once.
	got, err = svc.Resolve(ctx, d)
	suite.Require().NoError(err)
	suite.Require().NotNil(got)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestResolve_TodayRemapsToYesterday() {
	ctx := context.Background()
	today := day("2024-06-15")
	yesterday := day("2024-06-14")
	rec := &domain.RateRecord{
		FromCurrency: "TRY", ToCurrency: "USD",
		Rate: decimal.RequireFromString("0.0308"), Date: yesterday,
		Source: domain.ProviderManual,
	}
	suite.mockRepo.On("GetRate", ctx, domain.PairTRYUSD, yesterday).Return(rec, nil).Once()

	got, err := suite.newService(suite.defaultStrategy()).Resolve(ctx, today)
	suite.Require().NoError(err)
	suite.Require().NotNil(got)
	suite.Equal(yesterday, got.Date)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestResolve_FallsBackToSecondary() {
	ctx := context.Background()
	d := day("2024-06-01")
	suite.mockRepo.On("GetRate", ctx, domain.PairTRYUSD, d).
		Return(nil, apperrors.NewNotFoundError("no rate")).Once()

	quotaErr := &domain.ProviderError{
		Provider: domain.ProviderCurrencyFreaks,
		Code:     domain.CodeQuotaReached,
		Message:  "provider quota reached",
	}
	suite.mockPrimary.On("FetchHistorical", ctx, d).Return(nil, quotaErr).Once()
	suite.mockBackup.On("FetchHistorical", ctx, d).Return(&domain.ProviderRate{
		Rate:   decimal.RequireFromString("0.0307"),
		Source: domain.ProviderOXR,
	}, nil).Once()
	suite.mockRepo.On("UpsertRate", ctx, mock.AnythingOfType("domain.RateRecord")).Return(nil).Once()

	got, err := suite.newService(suite.defaultStrategy()).Resolve(ctx, d)
	suite.Require().NoError(err)
	suite.Require().NotNil(got)
	suite.Equal(domain.ProviderOXR, got.Source)
	suite.Equal(d, got.Date)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockPrimary.AssertExpectations(suite.T())
	suite.mockBackup.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestResolve_AllProvidersFailCachesTheMiss() {
	ctx := context.Background()
	d := day("2024-06-01")
	suite.mockRepo.On("GetRate", ctx, domain.PairTRYUSD, d).
		Return(nil, apperrors.NewNotFoundError("no rate")).Once()

	perr := &domain.ProviderError{Provider: domain.ProviderCurrencyFreaks, Code: domain.CodeRateUnavailable}
	suite.mockPrimary.On("FetchHistorical", ctx, d).Return(nil, perr).Once()
	suite.mockBackup.On("FetchHistorical", ctx, d).Return(nil, perr).Once()

	svc := suite.newService(suite.defaultStrategy())

	got, err := svc.Resolve(ctx, d)
	suite.Require().NoError(err)
	suite.Nil(got)

	// Negative-cached: no second round of store or provider calls.
	got, err = svc.Resolve(ctx, d)
	suite.Require().NoError(err)
	suite.Nil(got)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockPrimary.AssertExpectations(suite.T())
	suite.mockBackup.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestFetchForTier_NoProviderConfigured() {
	ctx := context.Background()
	strat := domain.ProviderStrategy{Sources: map[domain.Tier]domain.StrategySource{}}

	got, err := suite.newService(strat).FetchForTier(ctx, day("2024-06-01"), domain.TierPrimaryBackfill)
	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrNotConfigured)
}

func (suite *RateServiceTestSuite) TestFetchForTier_DailyOnlyServesYesterday() {
	ctx := context.Background()

	got, err := suite.newService(suite.defaultStrategy()).FetchForTier(ctx, day("2024-06-01"), domain.TierPrimaryDaily)
	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "2024-06-14")
}

func (suite *RateServiceTestSuite) TestFetchForTier_DailyTodayRemapsToYesterday() {
	ctx := context.Background()
	yesterday := day("2024-06-14")
	suite.mockPrimary.On("FetchLatest", ctx).Return(&domain.ProviderRate{
		Rate:   decimal.RequireFromString("0.0308"),
		Source: domain.ProviderCurrencyFreaks,
	}, nil).Once()
	suite.mockRepo.On("UpsertRate", ctx, mock.MatchedBy(func(rec domain.RateRecord) bool {
		return rec.Date.Equal(yesterday)
	})).Return(nil).Once()

	got, err := suite.newService(suite.defaultStrategy()).
		FetchForTier(ctx, day("2024-06-15"), domain.TierPrimaryDaily)
	suite.Require().NoError(err)
	suite.Require().NotNil(got)
	suite.Equal(yesterday, got.Date)
	suite.Equal(domain.ProviderCurrencyFreaks, got.Source)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockPrimary.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestFetchForTier_PreservesProviderError() {
	ctx := context.Background()
	d := day("2024-06-01")
	perr := &domain.ProviderError{
		Provider:   domain.ProviderCurrencyFreaks,
		Code:       domain.CodeQuotaReached,
		HTTPStatus: 429,
		Message:    "provider quota reached",
	}
	suite.mockPrimary.On("FetchHistorical", ctx, d).Return(nil, perr).Once()

	got, err := suite.newService(suite.defaultStrategy()).FetchForTier(ctx, d, domain.TierPrimaryBackfill)
	suite.Require().Error(err)
	suite.Nil(got)

	var gotPerr *domain.ProviderError
	suite.Require().ErrorAs(err, &gotPerr)
	suite.Equal(domain.CodeQuotaReached, gotPerr.Code)
}

func (suite *RateServiceTestSuite) TestSetManual_ConflictWithoutOverwrite() {
	ctx := context.Background()
	d1, d2 := day("2024-06-01"), day("2024-06-02")
	existing := &domain.RateRecord{
		FromCurrency: "TRY", ToCurrency: "USD",
		Rate: decimal.RequireFromString("0.031"), Date: d2,
		Source: domain.ProviderCurrencyFreaks,
	}
	suite.mockRepo.On("ListWindow", ctx, domain.PairTRYUSD, d1, d2).
		Return([]domain.RateRecord{*existing}, nil).Once()

	written, conflicts, err := suite.newService(suite.defaultStrategy()).
		SetManual(ctx, []time.Time{d1, d2}, decimal.RequireFromString("0.03"), false)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Empty(written)
	suite.Require().Len(conflicts, 1)
	suite.Equal(d2, conflicts[0].Date)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertRate", mock.Anything, mock.Anything)
}

func (suite *RateServiceTestSuite) TestSetManual_OverwriteWritesEveryDay() {
	ctx := context.Background()
	dates := []time.Time{day("2024-06-01"), day("2024-06-02")}
	suite.mockRepo.On("UpsertRate", ctx, mock.AnythingOfType("domain.RateRecord")).Return(nil).Twice()

	written, conflicts, err := suite.newService(suite.defaultStrategy()).
		SetManual(ctx, dates, decimal.RequireFromString("0.03"), true)

	suite.Require().NoError(err)
	suite.Empty(conflicts)
	suite.Require().Len(written, 2)
	suite.Equal(domain.ProviderManual, written[0].Source)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestSetManual_RejectsNonPositiveRate() {
	_, _, err := suite.newService(suite.defaultStrategy()).
		SetManual(context.Background(), []time.Time{day("2024-06-01")}, decimal.Zero, true)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RateServiceTestSuite) TestBackfillRange_TimeseriesShortcut() {
	ctx := context.Background()
	start, end := day("2024-06-01"), day("2024-06-03")
	suite.mockRepo.On("ExistingDates", ctx, domain.PairTRYUSD, start, end).
		Return(map[string]struct{}{"2024-06-02": {}}, nil).Once()
	suite.mockPrimary.On("FetchTimeseries", ctx, day("2024-06-01"), day("2024-06-03")).
		Return(map[string]decimal.Decimal{
			"2024-06-01": decimal.RequireFromString("0.0308"),
		}, nil).Once()
	suite.mockRepo.On("UpsertRate", ctx, mock.AnythingOfType("domain.RateRecord")).Return(nil).Once()

	res, err := suite.newService(suite.defaultStrategy()).
		BackfillRange(ctx, start, end, domain.TierPrimaryBackfill, 10)

	suite.Require().NoError(err)
	suite.Equal(3, res.Requested)
	suite.Equal(1, res.AlreadyStored)
	suite.Equal(1, res.Fetched)
	suite.Equal(1, res.Failed)
	suite.Equal(1, res.CallsUsed)
	suite.Equal([]string{"2024-06-03"}, res.FailedDates)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockPrimary.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestBackfillRange_StopsAtCallBudget() {
	ctx := context.Background()
	start, end := day("2024-06-01"), day("2024-06-03")
	suite.mockRepo.On("ExistingDates", ctx, domain.PairTRYUSD, start, end).
		Return(map[string]struct{}{}, nil).Once()

	strat := suite.defaultStrategy()
	strat.PrimaryBackfill = domain.ProviderOXR // historical only, no timeseries

	suite.mockBackup.On("FetchHistorical", ctx, mock.AnythingOfType("time.Time")).
		Return(&domain.ProviderRate{Rate: decimal.RequireFromString("0.0308"), Source: domain.ProviderOXR}, nil).Twice()
	suite.mockRepo.On("UpsertRate", ctx, mock.AnythingOfType("domain.RateRecord")).Return(nil).Twice()

	res, err := suite.newService(strat).BackfillRange(ctx, start, end, domain.TierPrimaryBackfill, 2)

	suite.Require().NoError(err)
	suite.Equal(2, res.Fetched)
	suite.Equal(2, res.CallsUsed)
	suite.True(res.StoppedEarly)

	suite.mockBackup.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestBackfillRange_QuotaStopsTheRun() {
	ctx := context.Background()
	start, end := day("2024-06-01"), day("2024-06-03")
	suite.mockRepo.On("ExistingDates", ctx, domain.PairTRYUSD, start, end).
		Return(map[string]struct{}{}, nil).Once()

	strat := suite.defaultStrategy()
	strat.PrimaryBackfill = domain.ProviderOXR

	quotaErr := &domain.ProviderError{Provider: domain.ProviderOXR, Code: domain.CodeQuotaReached}
	suite.mockBackup.On("FetchHistorical", ctx, day("2024-06-01")).Return(nil, quotaErr).Once()

	res, err := suite.newService(strat).BackfillRange(ctx, start, end, domain.TierPrimaryBackfill, 10)

	suite.Require().NoError(err)
	suite.Equal(0, res.Fetched)
	suite.Equal(1, res.Failed)
	suite.True(res.StoppedEarly)

	suite.mockBackup.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestBackfillRange_RejectsDailyTierAndInvertedRange() {
	svc := suite.newService(suite.defaultStrategy())

	_, err := svc.BackfillRange(context.Background(), day("2024-06-03"), day("2024-06-01"), domain.TierPrimaryBackfill, 10)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = svc.BackfillRange(context.Background(), day("2024-06-01"), day("2024-06-03"), domain.TierPrimaryDaily, 10)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateServiceTestSuite))
}
