package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskpool-service/internal/ledger"
)

func TestJoinPool(t *testing.T) {
	e, recorder := newTestEngine()
	id := createDefaultPool(t, e)

	err := e.JoinPool(context.Background(), testCreator, id, 150)
	require.NoError(t, err)

	pool, _ := e.GetPool(id)
	assert.Equal(t, uint64(150), pool.TotalBalance)
	assert.Equal(t, uint64(1), pool.ActiveMembers)

	member, ok := e.GetMembership(id, testCreator)
	require.True(t, ok)
	assert.Equal(t, uint64(150), member.ContributedBalance)
	assert.False(t, member.HasClaimed)

	// Creation fee plus the contribution into pool custody.
	transfers := recorder.Requests()
	require.Len(t, transfers, 2)
	assert.Equal(t, uint64(150), transfers[1].Amount)
	assert.Equal(t, testCreator, transfers[1].From)
	assert.Equal(t, ledger.PoolCustody(id), transfers[1].To)
}

func TestJoinPool_Errors(t *testing.T) {
	e, recorder := newTestEngine()
	id := createDefaultPool(t, e)

	err := e.JoinPool(context.Background(), testMember, 99, 150)
	assert.ErrorIs(t, err, ErrPoolNotFound)

	err = e.JoinPool(context.Background(), testMember, id, 50)
	assert.ErrorIs(t, err, ErrInvalidContribution, "contribution below pool minimum")

	require.NoError(t, e.JoinPool(context.Background(), testMember, id, 150))
	err = e.JoinPool(context.Background(), testMember, id, 200)
	assert.ErrorIs(t, err, ErrAlreadyMember)

	pool, _ := e.GetPool(id)
	assert.Equal(t, uint64(150), pool.TotalBalance, "rejected join must not touch the balance")
	assert.Equal(t, uint64(1), pool.ActiveMembers)

	// Fee transfer plus exactly one successful contribution.
	assert.Len(t, recorder.Requests(), 2)
}

func TestJoinPool_ClosedPool(t *testing.T) {
	e, _ := newTestEngine()
	id := createDefaultPool(t, e)
	require.NoError(t, e.ClosePool(testCreator, id))

	err := e.JoinPool(context.Background(), testMember, id, 150)
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestJoinPool_MaxMembers(t *testing.T) {
	e, _ := newTestEngine()
	require.NoError(t, e.SetAuthority(testAuthority))
	req := validCreateRequest()
	req.MaxMembers = 1
	id, err := e.CreatePool(context.Background(), testCreator, req)
	require.NoError(t, err)

	require.NoError(t, e.JoinPool(context.Background(), testCreator, id, 150))
	err = e.JoinPool(context.Background(), testMember, id, 150)
	assert.ErrorIs(t, err, ErrMaxMembersExceeded)
}
