package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"riskpool-service/internal/engine"
	"riskpool-service/internal/httputil"
)

// protocolStatus maps the engine's discrete error codes onto HTTP statuses.
// Validation failures are 400s; missing entities 404; authorization 403;
// state conflicts (including the retryable insufficient-balance case) 409.
func protocolStatus(err *engine.Error) int {
	switch err {
	case engine.ErrPoolNotFound, engine.ErrClaimNotFound:
		return http.StatusNotFound
	case engine.ErrNotAuthorized, engine.ErrSelfVoteForbidden:
		return http.StatusForbidden
	case engine.ErrAuthorityAlreadySet, engine.ErrAuthorityNotSet,
		engine.ErrRegionTaken, engine.ErrPoolClosed,
		engine.ErrAlreadyMember, engine.ErrAlreadyClaimed,
		engine.ErrVotingClosed, engine.ErrAlreadySettled,
		engine.ErrMaxPoolsExceeded, engine.ErrMaxMembersExceeded,
		engine.ErrInsufficientPoolBalance:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// respondProtocolError renders an engine error as the standard envelope.
// Non-protocol errors are impossible here: the engine maps every malformed
// input to a typed code.
func respondProtocolError(c fiber.Ctx, err error) error {
	var protocolErr *engine.Error
	if errors.As(err, &protocolErr) {
		return c.Status(protocolStatus(protocolErr)).JSON(
			httputil.CreateErrorResponse(protocolErr.Code, protocolMessage(protocolErr)))
	}
	return c.Status(http.StatusInternalServerError).JSON(
		httputil.CreateErrorResponse("INTERNAL", "Unexpected error"))
}

func protocolMessage(err *engine.Error) string {
	switch err {
	case engine.ErrAuthorityAlreadySet:
		return "Authority account is already configured"
	case engine.ErrReservedAccount:
		return "The reserved account cannot become the authority"
	case engine.ErrAuthorityNotSet:
		return "Authority account is not configured"
	case engine.ErrMaxPoolsExceeded:
		return "Pool limit reached"
	case engine.ErrRegionTaken:
		return "A pool already covers this region"
	case engine.ErrPoolNotFound:
		return "Pool not found"
	case engine.ErrPoolClosed:
		return "Pool is closed"
	case engine.ErrNotAuthorized:
		return "Caller is not the pool creator"
	case engine.ErrInvalidContribution:
		return "Contribution is below the pool minimum"
	case engine.ErrAlreadyMember:
		return "Account already joined this pool"
	case engine.ErrMaxMembersExceeded:
		return "Pool member limit reached"
	case engine.ErrNotMember:
		return "Caller is not a pool member"
	case engine.ErrAlreadyClaimed:
		return "Account already submitted a claim on this pool"
	case engine.ErrInvalidClaimAmount:
		return "Claim amount must be positive and within the pool maximum"
	case engine.ErrInvalidEvidence:
		return "Evidence value must be positive"
	case engine.ErrClaimNotFound:
		return "No claim by that member on this pool"
	case engine.ErrSelfVoteForbidden:
		return "Claimants cannot vote on their own claim"
	case engine.ErrVotingClosed:
		return "Claim is already settled"
	case engine.ErrAlreadySettled:
		return "Claim is already settled"
	case engine.ErrInsufficientPoolBalance:
		return "Pool balance cannot fund the payout yet"
	default:
		return "Invalid pool parameters"
	}
}
