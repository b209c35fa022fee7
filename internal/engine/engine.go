// Package engine implements the risk-pool protocol state machine: pool
// creation and configuration, membership accounting, and the claim
// submission/voting/settlement protocol.
//
// The engine is purely in-memory and strictly sequential. It assumes the
// caller supplies a total order across operations (on-ledger this is the
// consensus layer; in this service it is the service-layer mutex). Every
// operation validates all preconditions before touching state or emitting a
// transfer request, so a failed operation has zero side effects.
package engine

import (
	"time"

	"riskpool-service/internal/ledger"
	"riskpool-service/internal/models"
)

const (
	// DefaultMaxPools caps the number of pools that can ever be created.
	DefaultMaxPools = 1000
	// DefaultCreationFee is charged to a pool creator until the fee is tuned.
	DefaultCreationFee = 1000
	// DefaultReservedAccount is the host ledger's burn account. It can never
	// become the authority.
	DefaultReservedAccount = "SP000000000000000000002Q6VF78"

	maxRegionLen = 50
)

type memberKey struct {
	poolID  uint64
	account string
}

// Engine owns the registries: the authority singleton, the pool arena with
// its region index and id counter, the membership ledger, the claim records
// and the pool update log.
type Engine struct {
	transfers       ledger.TransferPort
	now             func() int64
	maxPools        uint64
	reservedAccount string

	authority   string // empty until configured, then immutable
	creationFee uint64

	nextPoolID    uint64
	pools         map[uint64]*models.Pool
	poolsByRegion map[string]uint64
	members       map[memberKey]*models.Membership
	claims        map[memberKey]*models.Claim
	poolUpdates   map[uint64]*models.PoolUpdate
}

// Option tunes engine construction.
type Option func(*Engine)

func WithMaxPools(maxPools uint64) Option {
	return func(e *Engine) { e.maxPools = maxPools }
}

func WithCreationFee(fee uint64) Option {
	return func(e *Engine) { e.creationFee = fee }
}

func WithReservedAccount(account string) Option {
	return func(e *Engine) { e.reservedAccount = account }
}

// WithClock overrides the timestamp source (Unix seconds).
func WithClock(now func() int64) Option {
	return func(e *Engine) { e.now = now }
}

func New(transfers ledger.TransferPort, opts ...Option) *Engine {
	e := &Engine{
		transfers:       transfers,
		now:             func() int64 { return time.Now().Unix() },
		maxPools:        DefaultMaxPools,
		creationFee:     DefaultCreationFee,
		reservedAccount: DefaultReservedAccount,
		pools:           make(map[uint64]*models.Pool),
		poolsByRegion:   make(map[string]uint64),
		members:         make(map[memberKey]*models.Membership),
		claims:          make(map[memberKey]*models.Claim),
		poolUpdates:     make(map[uint64]*models.PoolUpdate),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot is the full persisted state of the machine, used to rebuild the
// engine from storage at boot.
type Snapshot struct {
	Authority   models.AuthorityConfig
	Pools       []models.Pool
	Memberships []models.Membership
	Claims      []models.Claim
	PoolUpdates []models.PoolUpdate
}

// Restore replaces the engine state with a snapshot. Pool ids are consecutive
// from 0 and pools are never deleted, so the id counter resumes past the
// highest stored id.
func (e *Engine) Restore(snap Snapshot) {
	if snap.Authority.AuthorityAccount != nil {
		e.authority = *snap.Authority.AuthorityAccount
		e.creationFee = snap.Authority.CreationFee
	}

	e.nextPoolID = 0
	e.pools = make(map[uint64]*models.Pool, len(snap.Pools))
	e.poolsByRegion = make(map[string]uint64, len(snap.Pools))
	for _, pool := range snap.Pools {
		p := pool
		e.pools[p.ID] = &p
		e.poolsByRegion[p.Region] = p.ID
		if p.ID >= e.nextPoolID {
			e.nextPoolID = p.ID + 1
		}
	}

	e.members = make(map[memberKey]*models.Membership, len(snap.Memberships))
	for _, membership := range snap.Memberships {
		m := membership
		e.members[memberKey{m.PoolID, m.AccountID}] = &m
	}

	e.claims = make(map[memberKey]*models.Claim, len(snap.Claims))
	for _, claim := range snap.Claims {
		c := claim
		e.claims[memberKey{c.PoolID, c.ClaimantID}] = &c
	}

	e.poolUpdates = make(map[uint64]*models.PoolUpdate, len(snap.PoolUpdates))
	for _, update := range snap.PoolUpdates {
		u := update
		e.poolUpdates[u.PoolID] = &u
	}
}

// ============================================================================
// READS (never fail, never mutate)
// ============================================================================

// GetPool returns a copy of the pool, or false if no such pool exists.
func (e *Engine) GetPool(poolID uint64) (models.Pool, bool) {
	pool, ok := e.pools[poolID]
	if !ok {
		return models.Pool{}, false
	}
	return *pool, true
}

// PoolCount returns the number of pools created so far.
func (e *Engine) PoolCount() uint64 {
	return e.nextPoolID
}

// RegionExists reports whether a pool already covers the region.
func (e *Engine) RegionExists(region string) bool {
	_, ok := e.poolsByRegion[region]
	return ok
}

// GetMembership returns a copy of the membership record, or false.
func (e *Engine) GetMembership(poolID uint64, accountID string) (models.Membership, bool) {
	member, ok := e.members[memberKey{poolID, accountID}]
	if !ok {
		return models.Membership{}, false
	}
	return *member, true
}

// GetClaim returns a copy of the claim record, or false.
func (e *Engine) GetClaim(poolID uint64, claimantID string) (models.Claim, bool) {
	claim, ok := e.claims[memberKey{poolID, claimantID}]
	if !ok {
		return models.Claim{}, false
	}
	return *claim, true
}

// GetPoolUpdate returns the latest audit record for a pool, or false if the
// pool was never updated.
func (e *Engine) GetPoolUpdate(poolID uint64) (models.PoolUpdate, bool) {
	update, ok := e.poolUpdates[poolID]
	if !ok {
		return models.PoolUpdate{}, false
	}
	return *update, true
}

// Authority returns the configured authority account, or false while unset.
func (e *Engine) Authority() (string, bool) {
	return e.authority, e.authority != ""
}

// CreationFee returns the current pool creation fee.
func (e *Engine) CreationFee() uint64 {
	return e.creationFee
}

// AuthorityConfig returns the singleton as a persistable record.
func (e *Engine) AuthorityConfig() models.AuthorityConfig {
	cfg := models.AuthorityConfig{CreationFee: e.creationFee}
	if e.authority != "" {
		authority := e.authority
		cfg.AuthorityAccount = &authority
	}
	return cfg
}
