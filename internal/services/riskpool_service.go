package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"riskpool-service/internal/database/redis"
	"riskpool-service/internal/engine"
	"riskpool-service/internal/models"
	"riskpool-service/internal/repository"
)

const poolCacheTTL = 5 * time.Minute

// RiskPoolService wraps the protocol engine with the concerns the engine
// deliberately does not own: the total order across operations (a single
// mutex, standing in for the host ledger's consensus ordering), write-through
// persistence of applied state, and the Redis read cache.
//
// Persistence and cache failures are logged and never fail an operation the
// engine has already applied; the in-memory state is authoritative.
type RiskPoolService struct {
	mu     sync.Mutex
	engine *engine.Engine

	authorityRepo  *repository.AuthorityRepository
	poolRepo       *repository.PoolRepository
	membershipRepo *repository.MembershipRepository
	claimRepo      *repository.ClaimRepository
	updateRepo     *repository.PoolUpdateRepository

	cache *redis.Client
}

// Repositories groups the persistence layer. Any or all may be nil, in which
// case the service runs purely in memory.
type Repositories struct {
	Authority  *repository.AuthorityRepository
	Pool       *repository.PoolRepository
	Membership *repository.MembershipRepository
	Claim      *repository.ClaimRepository
	PoolUpdate *repository.PoolUpdateRepository
}

func NewRiskPoolService(e *engine.Engine, repos Repositories, cache *redis.Client) *RiskPoolService {
	return &RiskPoolService{
		engine:         e,
		authorityRepo:  repos.Authority,
		poolRepo:       repos.Pool,
		membershipRepo: repos.Membership,
		claimRepo:      repos.Claim,
		updateRepo:     repos.PoolUpdate,
		cache:          cache,
	}
}

// LoadState rebuilds the engine from the persisted tables. Called once at
// boot, before the service accepts calls.
func (s *RiskPoolService) LoadState(ctx context.Context) error {
	if s.poolRepo == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := engine.Snapshot{}

	if s.authorityRepo != nil {
		cfg, err := s.authorityRepo.Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to load authority config: %w", err)
		}
		if cfg != nil {
			snap.Authority = *cfg
		}
	}

	pools, err := s.poolRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pools: %w", err)
	}
	snap.Pools = pools

	if s.membershipRepo != nil {
		memberships, err := s.membershipRepo.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to load memberships: %w", err)
		}
		snap.Memberships = memberships
	}

	if s.claimRepo != nil {
		claims, err := s.claimRepo.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to load claims: %w", err)
		}
		snap.Claims = claims
	}

	if s.updateRepo != nil {
		updates, err := s.updateRepo.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to load pool updates: %w", err)
		}
		snap.PoolUpdates = updates
	}

	s.engine.Restore(snap)
	slog.Info("State restored from storage",
		"pools", len(snap.Pools),
		"memberships", len(snap.Memberships),
		"claims", len(snap.Claims),
	)
	return nil
}

// ============================================================================
// AUTHORITY
// ============================================================================

func (s *RiskPoolService) SetAuthority(ctx context.Context, candidate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.SetAuthority(candidate); err != nil {
		return err
	}
	s.persistAuthority(ctx)
	return nil
}

func (s *RiskPoolService) SetCreationFee(ctx context.Context, newFee uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.SetCreationFee(newFee); err != nil {
		return err
	}
	s.persistAuthority(ctx)
	return nil
}

// ============================================================================
// POOL LIFECYCLE
// ============================================================================

func (s *RiskPoolService) CreatePool(ctx context.Context, caller string, req models.CreatePoolRequest) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.engine.CreatePool(ctx, caller, req)
	if err != nil {
		return 0, err
	}
	s.persistPool(ctx, id)
	s.invalidatePoolCache(ctx, id)
	return id, nil
}

func (s *RiskPoolService) UpdatePool(ctx context.Context, caller string, poolID uint64, req models.UpdatePoolRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.UpdatePool(caller, poolID, req); err != nil {
		return err
	}
	s.persistPool(ctx, poolID)
	s.persistPoolUpdate(ctx, poolID)
	s.invalidatePoolCache(ctx, poolID)
	return nil
}

func (s *RiskPoolService) ClosePool(ctx context.Context, caller string, poolID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.ClosePool(caller, poolID); err != nil {
		return err
	}
	s.persistPool(ctx, poolID)
	s.invalidatePoolCache(ctx, poolID)
	return nil
}

// ============================================================================
// MEMBERSHIP
// ============================================================================

func (s *RiskPoolService) JoinPool(ctx context.Context, caller string, poolID uint64, contribution uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.JoinPool(ctx, caller, poolID, contribution); err != nil {
		return err
	}
	s.persistPool(ctx, poolID)
	s.persistMembership(ctx, poolID, caller)
	s.invalidatePoolCache(ctx, poolID)
	return nil
}

// ============================================================================
// CLAIMS & GOVERNANCE
// ============================================================================

func (s *RiskPoolService) SubmitClaim(ctx context.Context, caller string, poolID uint64, amount uint64, evidenceValue uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.SubmitClaim(ctx, caller, poolID, amount, evidenceValue); err != nil {
		return err
	}
	s.persistClaim(ctx, poolID, caller)
	s.persistMembership(ctx, poolID, caller)
	return nil
}

func (s *RiskPoolService) VoteOnClaim(ctx context.Context, caller string, poolID uint64, claimantID string, inFavor bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.VoteOnClaim(caller, poolID, claimantID, inFavor); err != nil {
		return err
	}
	s.persistClaim(ctx, poolID, claimantID)
	return nil
}

func (s *RiskPoolService) ProcessClaim(ctx context.Context, caller string, poolID uint64, claimantID string) (models.SettlementOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, err := s.engine.ProcessClaim(ctx, caller, poolID, claimantID)
	if err != nil {
		return "", err
	}
	s.persistClaim(ctx, poolID, claimantID)
	s.persistPool(ctx, poolID)
	s.invalidatePoolCache(ctx, poolID)
	return outcome, nil
}

// ============================================================================
// READS
// ============================================================================

func (s *RiskPoolService) GetPool(ctx context.Context, poolID uint64) (models.Pool, bool) {
	if s.cache != nil {
		var cached models.Pool
		hit, err := s.cache.GetJSON(ctx, poolCacheKey(poolID), &cached)
		if err != nil {
			slog.Warn("Pool cache read failed", "pool_id", poolID, "error", err)
		} else if hit {
			return cached, true
		}
	}

	s.mu.Lock()
	pool, ok := s.engine.GetPool(poolID)
	s.mu.Unlock()
	if !ok {
		return models.Pool{}, false
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, poolCacheKey(poolID), pool, poolCacheTTL); err != nil {
			slog.Warn("Pool cache write failed", "pool_id", poolID, "error", err)
		}
	}
	return pool, true
}

func (s *RiskPoolService) GetPoolCount(ctx context.Context) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.PoolCount()
}

func (s *RiskPoolService) CheckPoolExistence(ctx context.Context, region string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.RegionExists(region)
}

func (s *RiskPoolService) GetMembership(ctx context.Context, poolID uint64, accountID string) (models.Membership, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.GetMembership(poolID, accountID)
}

func (s *RiskPoolService) GetClaim(ctx context.Context, poolID uint64, claimantID string) (models.Claim, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.GetClaim(poolID, claimantID)
}

func (s *RiskPoolService) GetPoolUpdate(ctx context.Context, poolID uint64) (models.PoolUpdate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.GetPoolUpdate(poolID)
}

// ============================================================================
// PERSISTENCE / CACHE HELPERS (best effort, state machine is authoritative)
// ============================================================================

func poolCacheKey(poolID uint64) string {
	return fmt.Sprintf("riskpool:pool:%d", poolID)
}

func (s *RiskPoolService) persistAuthority(ctx context.Context) {
	if s.authorityRepo == nil {
		return
	}
	cfg := s.engine.AuthorityConfig()
	if err := s.authorityRepo.Upsert(ctx, &cfg); err != nil {
		slog.Error("Failed to persist authority config", "error", err)
	}
}

func (s *RiskPoolService) persistPool(ctx context.Context, poolID uint64) {
	if s.poolRepo == nil {
		return
	}
	pool, ok := s.engine.GetPool(poolID)
	if !ok {
		return
	}
	if err := s.poolRepo.Upsert(ctx, &pool); err != nil {
		slog.Error("Failed to persist pool", "pool_id", poolID, "error", err)
	}
}

func (s *RiskPoolService) persistMembership(ctx context.Context, poolID uint64, accountID string) {
	if s.membershipRepo == nil {
		return
	}
	membership, ok := s.engine.GetMembership(poolID, accountID)
	if !ok {
		return
	}
	if err := s.membershipRepo.Upsert(ctx, &membership); err != nil {
		slog.Error("Failed to persist membership", "pool_id", poolID, "account_id", accountID, "error", err)
	}
}

func (s *RiskPoolService) persistClaim(ctx context.Context, poolID uint64, claimantID string) {
	if s.claimRepo == nil {
		return
	}
	claim, ok := s.engine.GetClaim(poolID, claimantID)
	if !ok {
		return
	}
	if err := s.claimRepo.Upsert(ctx, &claim); err != nil {
		slog.Error("Failed to persist claim", "pool_id", poolID, "claimant_id", claimantID, "error", err)
	}
}

func (s *RiskPoolService) persistPoolUpdate(ctx context.Context, poolID uint64) {
	if s.updateRepo == nil {
		return
	}
	update, ok := s.engine.GetPoolUpdate(poolID)
	if !ok {
		return
	}
	if err := s.updateRepo.Upsert(ctx, &update); err != nil {
		slog.Error("Failed to persist pool update", "pool_id", poolID, "error", err)
	}
}

func (s *RiskPoolService) invalidatePoolCache(ctx context.Context, poolID uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, poolCacheKey(poolID)); err != nil {
		slog.Warn("Pool cache invalidation failed", "pool_id", poolID, "error", err)
	}
}
