package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdant-labs/climate-receivables/internal/cache"
	"github.com/verdant-labs/climate-receivables/internal/config"
	"github.com/verdant-labs/climate-receivables/internal/models"
	"github.com/verdant-labs/climate-receivables/internal/riskconfig"
)

// fakeStore is an in-memory DataStore for service tests
type fakeStore struct {
	mu          sync.Mutex
	users       map[string]*models.User
	assets      map[uuid.UUID]*models.Asset
	payers      map[uuid.UUID]*models.Payer
	receivables map[uuid.UUID]*models.Receivable
	incentives  map[uuid.UUID]*models.Incentive

	riskUpdates    int
	failRiskUpdate map[uuid.UUID]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:          make(map[string]*models.User),
		assets:         make(map[uuid.UUID]*models.Asset),
		payers:         make(map[uuid.UUID]*models.Payer),
		receivables:    make(map[uuid.UUID]*models.Receivable),
		incentives:     make(map[uuid.UUID]*models.Incentive),
		failRiskUpdate: make(map[uuid.UUID]bool),
	}
}

func (f *fakeStore) CreateUser(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.Email] = user
	return nil
}

func (f *fakeStore) FindUserByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[email]
	if !ok {
		return nil, &models.NotFoundError{Entity: "user", ID: email}
	}
	return user, nil
}

func (f *fakeStore) CreateAsset(asset *models.Asset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assets[asset.ID] = asset
	return nil
}

func (f *fakeStore) FindAssetByID(id uuid.UUID) (*models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	asset, ok := f.assets[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "asset", ID: id.String()}
	}
	return asset, nil
}

func (f *fakeStore) CreatePayer(payer *models.Payer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payers[payer.ID] = payer
	return nil
}

func (f *fakeStore) FindPayerByID(id uuid.UUID) (*models.Payer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payer, ok := f.payers[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "payer", ID: id.String()}
	}
	return payer, nil
}

func (f *fakeStore) CreateReceivable(rec *models.Receivable) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receivables[rec.ID] = rec
	return nil
}

func (f *fakeStore) FindReceivableByID(id uuid.UUID) (*models.Receivable, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.receivables[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "receivable", ID: id.String()}
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeStore) ListReceivables() ([]models.Receivable, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Receivable, 0, len(f.receivables))
	for _, rec := range f.receivables {
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeStore) UpdateReceivableRisk(id uuid.UUID, score, discountRate float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRiskUpdate[id] {
		return &models.NotFoundError{Entity: "receivable", ID: id.String()}
	}
	rec, ok := f.receivables[id]
	if !ok {
		return &models.NotFoundError{Entity: "receivable", ID: id.String()}
	}
	rec.RiskScore = &score
	rec.DiscountRate = &discountRate
	f.riskUpdates++
	return nil
}

func (f *fakeStore) DeleteReceivable(id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.receivables[id]; !ok {
		return &models.NotFoundError{Entity: "receivable", ID: id.String()}
	}
	delete(f.receivables, id)
	return nil
}

func (f *fakeStore) CreateIncentive(in *models.Incentive) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incentives[in.ID] = in
	return nil
}

func (f *fakeStore) FindIncentiveByID(id uuid.UUID) (*models.Incentive, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in, ok := f.incentives[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "incentive", ID: id.String()}
	}
	return in, nil
}

func (f *fakeStore) ListIncentives() ([]models.Incentive, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Incentive, 0, len(f.incentives))
	for _, in := range f.incentives {
		out = append(out, *in)
	}
	return out, nil
}

func (f *fakeStore) UpdateIncentiveStatus(id uuid.UUID, status models.IncentiveStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	in, ok := f.incentives[id]
	if !ok {
		return &models.NotFoundError{Entity: "incentive", ID: id.String()}
	}
	in.Status = status
	return nil
}

func (f *fakeStore) riskUpdateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.riskUpdates
}

// fixedFeed always reports the same policy rate
type fixedFeed struct{ rate float64 }

func (f fixedFeed) GetPolicyRate() (float64, error) { return f.rate, nil }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newTestService(t *testing.T, repo DataStore, feed RateFeed) *Service {
	t.Helper()
	store := riskconfig.NewStore(riskconfig.NewMemoryRepository(), testLogger())
	return NewService(repo, store, cache.NewMemoryCache(nil), feed, nil, testLogger(), &config.Config{JWTSecret: "test"})
}

func floatPtr(v float64) *float64 { return &v }

// seedReceivable adds an asset, a payer and a receivable wired together
func seedReceivable(f *fakeStore, payer *models.Payer, asset *models.Asset, amount float64) *models.Receivable {
	payer.ID = uuid.New()
	asset.ID = uuid.New()
	f.payers[payer.ID] = payer
	f.assets[asset.ID] = asset
	rec := &models.Receivable{
		ID:      uuid.New(),
		AssetID: asset.ID,
		PayerID: payer.ID,
		Amount:  amount,
		DueDate: time.Now().AddDate(0, 3, 0),
	}
	f.receivables[rec.ID] = rec
	return rec
}

func TestRecalculateRisk_UnknownReceivable(t *testing.T) {
	svc := newTestService(t, newFakeStore(), nil)

	_, err := svc.RecalculateRisk(context.Background(), uuid.New(), false)
	var nfe *models.NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "receivable", nfe.Entity)
}

func TestRecalculateRisk_AllSignalsLive(t *testing.T) {
	repo := newFakeStore()
	rec := seedReceivable(repo,
		&models.Payer{Name: "SolarGrid Corp", CreditRating: "AAA", FinancialHealthScore: floatPtr(90)},
		&models.Asset{Name: "Desert One", ProductionVariability: floatPtr(30)},
		10000)
	svc := newTestService(t, repo, fixedFeed{rate: 2.0})

	a, err := svc.RecalculateRisk(context.Background(), rec.ID, false)
	require.NoError(t, err)

	// AAA -> 10, health 90 -> 10, variability 30 -> band 40, rate 2% ->
	// volatility 10 -> band 20, policy impact 8 raw
	assert.InDelta(t, 16.8, a.Score, 1e-9)
	assert.Equal(t, "LOW", string(a.Level))
	assert.InDelta(t, 1.672, a.DiscountRate, 1e-9)
	assert.InDelta(t, 80.0, a.Confidence, 1e-9)
	assert.Equal(t, 5, a.LiveComponents)

	stored, err := repo.FindReceivableByID(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RiskScore)
	require.NotNil(t, stored.DiscountRate)
	assert.InDelta(t, a.Score, *stored.RiskScore, 1e-9)
	assert.InDelta(t, a.DiscountRate, *stored.DiscountRate, 1e-9)
}

func TestRecalculateRisk_DegradedSignals(t *testing.T) {
	repo := newFakeStore()
	// no rating, no health, no variability estimate, no rate feed
	rec := seedReceivable(repo, &models.Payer{Name: "Unknown Co"}, &models.Asset{Name: "Hilltop"}, 5000)
	svc := newTestService(t, repo, nil)

	a, err := svc.RecalculateRisk(context.Background(), rec.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, a.LiveComponents)
	assert.InDelta(t, 0.0, a.Confidence, 1e-9)
	// with nothing to anchor on the base rate applies
	assert.InDelta(t, 2.0, a.DiscountRate, 1e-9)
}

func TestRecalculateRisk_CachedUnlessForced(t *testing.T) {
	repo := newFakeStore()
	rec := seedReceivable(repo,
		&models.Payer{Name: "WindCo", CreditRating: "BBB", FinancialHealthScore: floatPtr(70)},
		&models.Asset{Name: "Coastal Array", ProductionVariability: floatPtr(55)},
		8000)
	svc := newTestService(t, repo, fixedFeed{rate: 3.0})

	first, err := svc.RecalculateRisk(context.Background(), rec.ID, false)
	require.NoError(t, err)
	require.Equal(t, 1, repo.riskUpdateCount())

	// signal change is invisible while the cached assessment is fresh
	repo.mu.Lock()
	repo.payers[rec.PayerID].CreditRating = "D"
	repo.mu.Unlock()

	second, err := svc.RecalculateRisk(context.Background(), rec.ID, false)
	require.NoError(t, err)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, 1, repo.riskUpdateCount())

	forced, err := svc.RecalculateRisk(context.Background(), rec.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.riskUpdateCount())
	assert.Greater(t, forced.Score, first.Score)
}

func TestRecalculateAll_ContinuesPastFailures(t *testing.T) {
	repo := newFakeStore()
	var failing uuid.UUID
	for i := 0; i < 3; i++ {
		rec := seedReceivable(repo,
			&models.Payer{Name: "Payer", CreditRating: "A", FinancialHealthScore: floatPtr(60)},
			&models.Asset{Name: "Asset", ProductionVariability: floatPtr(40)},
			1000)
		if i == 1 {
			failing = rec.ID
		}
	}
	repo.failRiskUpdate[failing] = true
	svc := newTestService(t, repo, nil)

	result, err := svc.RecalculateAll(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
}

func TestCreateReceivable_Validation(t *testing.T) {
	repo := newFakeStore()
	svc := newTestService(t, repo, nil)

	_, err := svc.CreateReceivable(context.Background(), CreateReceivableInput{
		Amount:  -5,
		DueDate: time.Now(),
	})
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "amount", ve.Field)

	// unknown asset reference
	_, err = svc.CreateReceivable(context.Background(), CreateReceivableInput{
		AssetID: uuid.New(),
		PayerID: uuid.New(),
		Amount:  100,
		DueDate: time.Now().AddDate(0, 1, 0),
	})
	var nfe *models.NotFoundError
	require.ErrorAs(t, err, &nfe)
}

func TestCreateReceivable_SuppliedScoreDerivesDiscount(t *testing.T) {
	repo := newFakeStore()
	asset := &models.Asset{Name: "Riverbend", ID: uuid.New()}
	payer := &models.Payer{Name: "HydroBuy", ID: uuid.New()}
	repo.assets[asset.ID] = asset
	repo.payers[payer.ID] = payer
	svc := newTestService(t, repo, nil)

	rec, err := svc.CreateReceivable(context.Background(), CreateReceivableInput{
		AssetID:   asset.ID,
		PayerID:   payer.ID,
		Amount:    2500,
		DueDate:   time.Now().AddDate(0, 2, 0),
		RiskScore: floatPtr(50),
	})
	require.NoError(t, err)
	require.NotNil(t, rec.RiskScore)
	require.NotNil(t, rec.DiscountRate)
	assert.Equal(t, 50.0, *rec.RiskScore)
	// linear interpolation between the configured min and max rates
	assert.InDelta(t, 3.0, *rec.DiscountRate, 1e-9)

	_, err = svc.CreateReceivable(context.Background(), CreateReceivableInput{
		AssetID:   asset.ID,
		PayerID:   payer.ID,
		Amount:    2500,
		DueDate:   time.Now().AddDate(0, 2, 0),
		RiskScore: floatPtr(120),
	})
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "risk_score", ve.Field)
}

func TestCreateReceivable_BackgroundRecalcFailureNeverSurfaces(t *testing.T) {
	repo := newFakeStore()
	asset := &models.Asset{Name: "Mesa Field", ID: uuid.New()}
	payer := &models.Payer{Name: "GridBuy", ID: uuid.New(), CreditRating: "A"}
	repo.assets[asset.ID] = asset
	repo.payers[payer.ID] = payer

	// a lone weight override breaks the sum-to-1.0 invariant, so every
	// background snapshot validation fails
	cfgRepo := riskconfig.NewMemoryRepository()
	require.NoError(t, cfgRepo.SetAll(map[string]string{"risk_weight_credit_rating": "0.9"}))
	store := riskconfig.NewStore(cfgRepo, testLogger())
	svc := NewService(repo, store, cache.NewMemoryCache(nil), nil, nil, testLogger(), &config.Config{JWTSecret: "test"})

	rec, err := svc.CreateReceivable(context.Background(), CreateReceivableInput{
		AssetID: asset.ID,
		PayerID: payer.ID,
		Amount:  7500,
		DueDate: time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	assert.Nil(t, rec.RiskScore)
	assert.Nil(t, rec.DiscountRate)

	// the failed background run must leave no partial score behind
	assert.Never(t, func() bool {
		return repo.riskUpdateCount() > 0
	}, 100*time.Millisecond, 10*time.Millisecond)

	stored, err := repo.FindReceivableByID(rec.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RiskScore)
	assert.Nil(t, stored.DiscountRate)
}

func TestDeleteReceivable_InvalidatesCache(t *testing.T) {
	repo := newFakeStore()
	rec := seedReceivable(repo,
		&models.Payer{Name: "P", CreditRating: "BB"},
		&models.Asset{Name: "A"},
		500)
	svc := newTestService(t, repo, nil)
	ctx := context.Background()

	_, err := svc.RecalculateRisk(ctx, rec.ID, false)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReceivable(ctx, rec.ID))

	_, hit, err := svc.scores.Get(ctx, rec.ID.String())
	require.NoError(t, err)
	assert.False(t, hit)

	var nfe *models.NotFoundError
	require.ErrorAs(t, svc.DeleteReceivable(ctx, rec.ID), &nfe)
}
