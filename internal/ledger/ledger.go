// Package ledger is the narrow boundary to the host ledger's value custody.
// The risk-pool engine never moves funds itself; it emits transfer requests
// through TransferPort and treats every request as having succeeded.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// PoolCustody returns the synthetic account that holds a pool's funds on the
// host ledger.
func PoolCustody(poolID uint64) string {
	return fmt.Sprintf("pool:%d", poolID)
}

// TransferRequest asks the host ledger to move value. From/To are opaque
// account identifiers; either side may be a pool custody account.
type TransferRequest struct {
	ID     uuid.UUID `json:"id"`
	Amount uint64    `json:"amount"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	Memo   string    `json:"memo,omitempty"`
}

// TransferPort accepts transfer requests. Implementations are fire-and-forget
// side-effect sinks: the engine never rolls back on a transfer failure.
type TransferPort interface {
	Request(ctx context.Context, req TransferRequest)
}
