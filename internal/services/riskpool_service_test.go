package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskpool-service/internal/engine"
	"riskpool-service/internal/ledger"
	"riskpool-service/internal/models"
)

func newTestService() (*RiskPoolService, *ledger.Recorder) {
	recorder := ledger.NewRecorder()
	e := engine.New(recorder)
	return NewRiskPoolService(e, Repositories{}, nil), recorder
}

func testCreateRequest(region string) models.CreatePoolRequest {
	return models.CreatePoolRequest{
		RiskType:        models.RiskFlood,
		Region:          region,
		PremiumRate:     50,
		CoverageLimit:   10000,
		InterestRate:    10,
		GracePeriodDays: 7,
		Currency:        models.CurrencyNative,
		MinContribution: 100,
		MaxClaimAmount:  5000,
		MaxMembers:      200,
	}
}

func TestRiskPoolService_Lifecycle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.SetAuthority(ctx, "ST2TEST"))
	require.NoError(t, svc.SetCreationFee(ctx, 500))

	id, err := svc.CreatePool(ctx, "ST1TEST", testCreateRequest("CoastalArea"))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)
	assert.Equal(t, uint64(1), svc.GetPoolCount(ctx))
	assert.True(t, svc.CheckPoolExistence(ctx, "CoastalArea"))

	require.NoError(t, svc.JoinPool(ctx, "ST1TEST", id, 150))
	require.NoError(t, svc.JoinPool(ctx, "ST3TEST", id, 2000))

	require.NoError(t, svc.SubmitClaim(ctx, "ST1TEST", id, 1000, 12345))
	require.NoError(t, svc.VoteOnClaim(ctx, "ST3TEST", id, "ST1TEST", true))

	outcome, err := svc.ProcessClaim(ctx, "ST1TEST", id, "ST1TEST")
	require.NoError(t, err)
	assert.Equal(t, models.SettlementApproved, outcome)

	pool, ok := svc.GetPool(ctx, id)
	require.True(t, ok)
	assert.Equal(t, uint64(150+2000-1000), pool.TotalBalance)

	claim, ok := svc.GetClaim(ctx, id, "ST1TEST")
	require.True(t, ok)
	assert.Equal(t, models.ClaimApproved, claim.Status)
}

func TestRiskPoolService_ProtocolErrorsPassThrough(t *testing.T) {
	svc, recorder := newTestService()
	ctx := context.Background()

	_, err := svc.CreatePool(ctx, "ST1TEST", testCreateRequest("CoastalArea"))
	assert.ErrorIs(t, err, engine.ErrAuthorityNotSet)
	assert.Empty(t, recorder.Requests())

	require.NoError(t, svc.SetAuthority(ctx, "ST2TEST"))
	err = svc.SetAuthority(ctx, "ST9OTHER")
	assert.ErrorIs(t, err, engine.ErrAuthorityAlreadySet)
}

func TestRiskPoolService_UpdateAndAuditLog(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.SetAuthority(ctx, "ST2TEST"))
	id, err := svc.CreatePool(ctx, "ST1TEST", testCreateRequest("CoastalArea"))
	require.NoError(t, err)

	_, ok := svc.GetPoolUpdate(ctx, id)
	assert.False(t, ok)

	require.NoError(t, svc.UpdatePool(ctx, "ST1TEST", id, models.UpdatePoolRequest{
		RiskType:      models.RiskStorm,
		PremiumRate:   75,
		CoverageLimit: 20000,
	}))

	update, ok := svc.GetPoolUpdate(ctx, id)
	require.True(t, ok)
	assert.Equal(t, models.RiskStorm, update.UpdatedRiskType)
	assert.Equal(t, "ST1TEST", update.Updater)

	require.NoError(t, svc.ClosePool(ctx, "ST1TEST", id))
	pool, _ := svc.GetPool(ctx, id)
	assert.False(t, pool.IsOpen)
}

// The service mutex supplies the total order the engine assumes. Concurrent
// joins racing for limited slots must never exceed the member cap or corrupt
// the balance.
func TestRiskPoolService_ConcurrentJoinsRespectMemberCap(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.SetAuthority(ctx, "ST2TEST"))
	req := testCreateRequest("CoastalArea")
	req.MaxMembers = 10
	id, err := svc.CreatePool(ctx, "ST1TEST", req)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			account := fmt.Sprintf("ST%dACCT", n)
			_ = svc.JoinPool(ctx, account, id, 100)
		}(i)
	}
	wg.Wait()

	pool, ok := svc.GetPool(ctx, id)
	require.True(t, ok)
	assert.Equal(t, uint64(10), pool.ActiveMembers)
	assert.Equal(t, uint64(1000), pool.TotalBalance)
}
