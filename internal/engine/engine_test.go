package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskpool-service/internal/ledger"
	"riskpool-service/internal/models"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

const (
	testCreator   = "ST1TEST"
	testAuthority = "ST2TEST"
	testMember    = "ST3TEST"
)

func newTestEngine() (*Engine, *ledger.Recorder) {
	recorder := ledger.NewRecorder()
	var tick int64
	e := New(recorder, WithClock(func() int64 {
		tick++
		return tick
	}))
	return e, recorder
}

func validCreateRequest() models.CreatePoolRequest {
	return models.CreatePoolRequest{
		RiskType:        models.RiskFlood,
		Region:          "CoastalArea",
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

func createDefaultPool(t *testing.T, e *Engine) uint64 {
	t.Helper()
	require.NoError(t, e.SetAuthority(testAuthority))
	id, err := e.CreatePool(context.Background(), testCreator, validCreateRequest())
	require.NoError(t, err)
	return id
}

// ============================================================================
// AUTHORITY CONFIGURATION
// ============================================================================

func TestSetAuthority(t *testing.T) {
	e, _ := newTestEngine()

	err := e.SetAuthority(testAuthority)
	assert.NoError(t, err)

	authority, ok := e.Authority()
	assert.True(t, ok)
	assert.Equal(t, testAuthority, authority)
}

func TestSetAuthority_RejectsReservedAccount(t *testing.T) {
	e, _ := newTestEngine()

	err := e.SetAuthority(DefaultReservedAccount)
	assert.ErrorIs(t, err, ErrReservedAccount)

	_, ok := e.Authority()
	assert.False(t, ok)
}

func TestSetAuthority_SetOnce(t *testing.T) {
	e, _ := newTestEngine()

	require.NoError(t, e.SetAuthority(testAuthority))
	err := e.SetAuthority("ST9OTHER")
	assert.ErrorIs(t, err, ErrAuthorityAlreadySet)

	authority, _ := e.Authority()
	assert.Equal(t, testAuthority, authority, "authority must be immutable once set")
}

func TestSetCreationFee(t *testing.T) {
	e, _ := newTestEngine()

	err := e.SetCreationFee(2500)
	assert.ErrorIs(t, err, ErrAuthorityNotSet)

	require.NoError(t, e.SetAuthority(testAuthority))
	assert.NoError(t, e.SetCreationFee(2500))
	assert.Equal(t, uint64(2500), e.CreationFee())
}

// ============================================================================
// SNAPSHOT RESTORE
// ============================================================================

func TestRestore_ResumesIDCounterAndIndexes(t *testing.T) {
	e, _ := newTestEngine()
	id := createDefaultPool(t, e)
	require.NoError(t, e.JoinPool(context.Background(), testCreator, id, 150))
	require.NoError(t, e.SubmitClaim(context.Background(), testCreator, id, 1000, 12345))

	snap := Snapshot{
		Authority: e.AuthorityConfig(),
	}
	pool, _ := e.GetPool(id)
	snap.Pools = append(snap.Pools, pool)
	member, _ := e.GetMembership(id, testCreator)
	snap.Memberships = append(snap.Memberships, member)
	claim, _ := e.GetClaim(id, testCreator)
	snap.Claims = append(snap.Claims, claim)

	restored, _ := newTestEngine()
	restored.Restore(snap)

	assert.Equal(t, uint64(1), restored.PoolCount())
	assert.True(t, restored.RegionExists("CoastalArea"))

	restoredPool, ok := restored.GetPool(id)
	require.True(t, ok)
	assert.Equal(t, pool, restoredPool)

	// A restored engine must reject a duplicate claim just like before restart.
	err := restored.SubmitClaim(context.Background(), testCreator, id, 500, 99)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)

	// Next pool id continues past the restored ones.
	req := validCreateRequest()
	req.Region = "DryArea"
	nextID, err := restored.CreatePool(context.Background(), testCreator, req)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), nextID)
}
