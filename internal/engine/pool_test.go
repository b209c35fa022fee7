package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskpool-service/internal/ledger"
	"riskpool-service/internal/models"
)

// ============================================================================
// POOL CREATION
// ============================================================================

func TestCreatePool(t *testing.T) {
	e, recorder := newTestEngine()
	require.NoError(t, e.SetAuthority(testAuthority))

	id, err := e.CreatePool(context.Background(), testCreator, validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)

	pool, ok := e.GetPool(0)
	require.True(t, ok)
	assert.Equal(t, models.RiskFlood, pool.RiskType)
	assert.Equal(t, "CoastalArea", pool.Region)
	assert.Equal(t, uint64(50), pool.PremiumRate)
	assert.Equal(t, uint64(10000), pool.CoverageLimit)
	assert.Equal(t, uint64(10), pool.InterestRate)
	assert.Equal(t, uint64(7), pool.GracePeriodDays)
	assert.Equal(t, models.CurrencyNative, pool.Currency)
	assert.Equal(t, uint64(100), pool.MinContribution)
	assert.Equal(t, uint64(5000), pool.MaxClaimAmount)
	assert.Equal(t, uint64(200), pool.MaxMembers)
	assert.Equal(t, testCreator, pool.Creator)
	assert.Zero(t, pool.TotalBalance)
	assert.Zero(t, pool.ActiveMembers)
	assert.True(t, pool.IsOpen)

	// Creation fee goes from the creator to the authority.
	transfers := recorder.Requests()
	require.Len(t, transfers, 1)
	assert.Equal(t, uint64(DefaultCreationFee), transfers[0].Amount)
	assert.Equal(t, testCreator, transfers[0].From)
	assert.Equal(t, testAuthority, transfers[0].To)
}

func TestCreatePool_ConsecutiveIDs(t *testing.T) {
	e, _ := newTestEngine()
	require.NoError(t, e.SetAuthority(testAuthority))

	regions := []string{"CoastalArea", "DryArea", "WindyArea"}
	for i, region := range regions {
		req := validCreateRequest()
		req.Region = region
		id, err := e.CreatePool(context.Background(), testCreator, req)
		require.NoError(t, err)
		assert.Equal(t, uint64(i), id)
	}
	assert.Equal(t, uint64(3), e.PoolCount())
}

func TestCreatePool_RejectsDuplicateRegion(t *testing.T) {
	e, _ := newTestEngine()
	require.NoError(t, e.SetAuthority(testAuthority))

	_, err := e.CreatePool(context.Background(), testCreator, validCreateRequest())
	require.NoError(t, err)

	// Same region, everything else different.
	req := models.CreatePoolRequest{
		RiskType:        models.RiskDrought,
		Region:          "CoastalArea",
		PremiumRate:     60,
		CoverageLimit:   15000,
		InterestRate:    15,
		GracePeriodDays: 14,
		Currency:        models.CurrencyUSD,
		MinContribution: 200,
		MaxClaimAmount:  10000,
		MaxMembers:      300,
	}
	_, err = e.CreatePool(context.Background(), "ST9OTHER", req)
	assert.ErrorIs(t, err, ErrRegionTaken)
	assert.Equal(t, uint64(1), e.PoolCount())
}

func TestCreatePool_RequiresAuthority(t *testing.T) {
	e, recorder := newTestEngine()

	_, err := e.CreatePool(context.Background(), testCreator, validCreateRequest())
	assert.ErrorIs(t, err, ErrAuthorityNotSet)
	assert.Empty(t, recorder.Requests(), "failed creation must emit no transfers")
}

func TestCreatePool_MaxPoolsExceeded(t *testing.T) {
	e := New(ledger.NewRecorder(), WithMaxPools(1))
	require.NoError(t, e.SetAuthority(testAuthority))

	_, err := e.CreatePool(context.Background(), testCreator, validCreateRequest())
	require.NoError(t, err)

	req := validCreateRequest()
	req.Region = "DryArea"
	_, err = e.CreatePool(context.Background(), testCreator, req)
	assert.ErrorIs(t, err, ErrMaxPoolsExceeded)
}

func TestCreatePool_FieldValidation(t *testing.T) {
	e, _ := newTestEngine()
	require.NoError(t, e.SetAuthority(testAuthority))

	tests := []struct {
		name    string
		mutate  func(*models.CreatePoolRequest)
		wantErr *Error
	}{
		{"invalid risk type", func(r *models.CreatePoolRequest) { r.RiskType = "EARTHQUAKE" }, ErrInvalidRiskType},
		{"empty region", func(r *models.CreatePoolRequest) { r.Region = "" }, ErrInvalidRegion},
		{"region too long", func(r *models.CreatePoolRequest) { r.Region = strings.Repeat("x", 51) }, ErrInvalidRegion},
		{"zero premium", func(r *models.CreatePoolRequest) { r.PremiumRate = 0 }, ErrInvalidPremiumRate},
		{"premium over 100", func(r *models.CreatePoolRequest) { r.PremiumRate = 101 }, ErrInvalidPremiumRate},
		{"zero coverage", func(r *models.CreatePoolRequest) { r.CoverageLimit = 0 }, ErrInvalidCoverageLimit},
		{"interest over 20", func(r *models.CreatePoolRequest) { r.InterestRate = 21 }, ErrInvalidInterestRate},
		{"grace over 30", func(r *models.CreatePoolRequest) { r.GracePeriodDays = 31 }, ErrInvalidGracePeriod},
		{"invalid currency", func(r *models.CreatePoolRequest) { r.Currency = "EUR" }, ErrInvalidCurrency},
		{"zero min contribution", func(r *models.CreatePoolRequest) { r.MinContribution = 0 }, ErrInvalidMinContrib},
		{"zero max claim", func(r *models.CreatePoolRequest) { r.MaxClaimAmount = 0 }, ErrInvalidMaxClaim},
		{"zero max members", func(r *models.CreatePoolRequest) { r.MaxMembers = 0 }, ErrMaxMembersExceeded},
		{"max members over 500", func(r *models.CreatePoolRequest) { r.MaxMembers = 501 }, ErrMaxMembersExceeded},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)
			_, err := e.CreatePool(context.Background(), testCreator, req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreatePool_ValidationOrder(t *testing.T) {
	e, _ := newTestEngine()
	require.NoError(t, e.SetAuthority(testAuthority))

	// Risk type is checked before region, even when both are invalid.
	req := validCreateRequest()
	req.RiskType = "EARTHQUAKE"
	req.Region = ""
	_, err := e.CreatePool(context.Background(), testCreator, req)
	assert.ErrorIs(t, err, ErrInvalidRiskType)

	// Region uniqueness is checked before the authority gate.
	_, err = e.CreatePool(context.Background(), testCreator, validCreateRequest())
	require.NoError(t, err)
	unset, _ := newTestEngine()
	unset.poolsByRegion["CoastalArea"] = 0
	_, err = unset.CreatePool(context.Background(), testCreator, validCreateRequest())
	assert.ErrorIs(t, err, ErrRegionTaken)
}

// ============================================================================
// POOL UPDATE / CLOSE
// ============================================================================

func TestUpdatePool(t *testing.T) {
	e, _ := newTestEngine()
	id := createDefaultPool(t, e)

	err := e.UpdatePool(testCreator, id, models.UpdatePoolRequest{
		RiskType:      models.RiskDrought,
		PremiumRate:   60,
		CoverageLimit: 15000,
	})
	require.NoError(t, err)

	pool, _ := e.GetPool(id)
	assert.Equal(t, models.RiskDrought, pool.RiskType)
	assert.Equal(t, uint64(60), pool.PremiumRate)
	assert.Equal(t, uint64(15000), pool.CoverageLimit)

	update, ok := e.GetPoolUpdate(id)
	require.True(t, ok)
	assert.Equal(t, models.RiskDrought, update.UpdatedRiskType)
	assert.Equal(t, uint64(60), update.UpdatedPremiumRate)
	assert.Equal(t, uint64(15000), update.UpdatedCoverageLimit)
	assert.Equal(t, testCreator, update.Updater)
	assert.Equal(t, pool.UpdatedAt, update.UpdatedAt)
}

func TestUpdatePool_AuditRecordOverwritten(t *testing.T) {
	e, _ := newTestEngine()
	id := createDefaultPool(t, e)

	_, ok := e.GetPoolUpdate(id)
	assert.False(t, ok, "no audit record before the first update")

	require.NoError(t, e.UpdatePool(testCreator, id, models.UpdatePoolRequest{
		RiskType: models.RiskDrought, PremiumRate: 60, CoverageLimit: 15000,
	}))
	require.NoError(t, e.UpdatePool(testCreator, id, models.UpdatePoolRequest{
		RiskType: models.RiskStorm, PremiumRate: 70, CoverageLimit: 20000,
	}))

	update, _ := e.GetPoolUpdate(id)
	assert.Equal(t, models.RiskStorm, update.UpdatedRiskType)
	assert.Equal(t, uint64(70), update.UpdatedPremiumRate)
}

func TestUpdatePool_Errors(t *testing.T) {
	e, _ := newTestEngine()
	id := createDefaultPool(t, e)
	valid := models.UpdatePoolRequest{RiskType: models.RiskDrought, PremiumRate: 60, CoverageLimit: 15000}

	err := e.UpdatePool(testCreator, 99, valid)
	assert.ErrorIs(t, err, ErrPoolNotFound)

	err = e.UpdatePool("ST9OTHER", id, valid)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	err = e.UpdatePool(testCreator, id, models.UpdatePoolRequest{RiskType: "EARTHQUAKE", PremiumRate: 60, CoverageLimit: 15000})
	assert.ErrorIs(t, err, ErrInvalidRiskType)

	err = e.UpdatePool(testCreator, id, models.UpdatePoolRequest{RiskType: models.RiskDrought, PremiumRate: 0, CoverageLimit: 15000})
	assert.ErrorIs(t, err, ErrInvalidPremiumRate)

	err = e.UpdatePool(testCreator, id, models.UpdatePoolRequest{RiskType: models.RiskDrought, PremiumRate: 60, CoverageLimit: 0})
	assert.ErrorIs(t, err, ErrInvalidCoverageLimit)

	pool, _ := e.GetPool(id)
	assert.Equal(t, models.RiskFlood, pool.RiskType, "failed update must not mutate the pool")
}

func TestClosePool(t *testing.T) {
	e, _ := newTestEngine()
	id := createDefaultPool(t, e)

	err := e.ClosePool("ST9OTHER", id)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	err = e.ClosePool(testCreator, 99)
	assert.ErrorIs(t, err, ErrPoolNotFound)

	require.NoError(t, e.ClosePool(testCreator, id))
	pool, _ := e.GetPool(id)
	assert.False(t, pool.IsOpen)

	// Closing again re-succeeds with identical state.
	require.NoError(t, e.ClosePool(testCreator, id))
	pool, _ = e.GetPool(id)
	assert.False(t, pool.IsOpen)
}

// ============================================================================
// READS
// ============================================================================

func TestReads(t *testing.T) {
	e, _ := newTestEngine()

	assert.Zero(t, e.PoolCount())
	assert.False(t, e.RegionExists("CoastalArea"))
	_, ok := e.GetPool(0)
	assert.False(t, ok)

	createDefaultPool(t, e)

	assert.Equal(t, uint64(1), e.PoolCount())
	assert.True(t, e.RegionExists("CoastalArea"))
	assert.False(t, e.RegionExists("NonExistent"))
}
