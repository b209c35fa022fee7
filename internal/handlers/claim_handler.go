package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"riskpool-service/internal/httputil"
	"riskpool-service/internal/models"
	"riskpool-service/internal/services"
)

type ClaimHandler struct {
	riskPoolService *services.RiskPoolService
}

func NewClaimHandler(riskPoolService *services.RiskPoolService) *ClaimHandler {
	return &ClaimHandler{riskPoolService: riskPoolService}
}

func (h *ClaimHandler) Register(app *fiber.App) {
	protectedGr := app.Group("riskpool/protected/api/v1")

	claimGroup := protectedGr.Group("/pools/:id/claims")
	claimGroup.Post("/", h.SubmitClaim)                   // POST /pools/:id/claims
	claimGroup.Get("/:claimant", h.GetClaim)              // GET /pools/:id/claims/:claimant
	claimGroup.Post("/:claimant/votes", h.VoteOnClaim)    // POST /pools/:id/claims/:claimant/votes
	claimGroup.Post("/:claimant/process", h.ProcessClaim) // POST /pools/:id/claims/:claimant/process
}

// SubmitClaim opens a pending claim for the calling member. One claim per
// member per pool, ever.
func (h *ClaimHandler) SubmitClaim(c fiber.Ctx) error {
	caller := callerID(c)
	if caller == "" {
		return c.Status(http.StatusUnauthorized).JSON(
			httputil.CreateErrorResponse("UNAUTHORIZED", "User ID is required"))
	}

	id, err := parsePoolID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_POOL_ID", "Invalid pool ID format"))
	}

	var req models.SubmitClaimRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	if err := h.riskPoolService.SubmitClaim(c.Context(), caller, id, req.Amount, req.EvidenceValue); err != nil {
		return respondProtocolError(c, err)
	}

	slog.Info("Claim submitted", "pool_id", id, "claimant_id", caller, "amount", req.Amount)
	return c.Status(http.StatusCreated).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"pool_id":     id,
		"claimant_id": caller,
		"status":      models.ClaimPending,
	}))
}

// GetClaim retrieves one claim record
func (h *ClaimHandler) GetClaim(c fiber.Ctx) error {
	id, err := parsePoolID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_POOL_ID", "Invalid pool ID format"))
	}

	claimant := c.Params("claimant")
	claim, ok := h.riskPoolService.GetClaim(c.Context(), id, claimant)
	if !ok {
		return c.Status(http.StatusNotFound).JSON(
			httputil.CreateErrorResponse("CLAIM_NOT_FOUND", "No claim by that member on this pool"))
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(claim))
}

// VoteOnClaim records one peer vote on a pending claim
func (h *ClaimHandler) VoteOnClaim(c fiber.Ctx) error {
	caller := callerID(c)
	if caller == "" {
		return c.Status(http.StatusUnauthorized).JSON(
			httputil.CreateErrorResponse("UNAUTHORIZED", "User ID is required"))
	}

	id, err := parsePoolID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_POOL_ID", "Invalid pool ID format"))
	}

	claimant := c.Params("claimant")
	var req models.VoteOnClaimRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	if err := h.riskPoolService.VoteOnClaim(c.Context(), caller, id, claimant, req.InFavor); err != nil {
		return respondProtocolError(c, err)
	}

	slog.Info("Vote recorded", "pool_id", id, "claimant_id", claimant, "voter", caller, "in_favor", req.InFavor)
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"pool_id":     id,
		"claimant_id": claimant,
		"in_favor":    req.InFavor,
	}))
}

// ProcessClaim settles a pending claim (pool creator only). The settlement
// outcome distinguishes approval from rejection; both are successes.
func (h *ClaimHandler) ProcessClaim(c fiber.Ctx) error {
	caller := callerID(c)
	if caller == "" {
		return c.Status(http.StatusUnauthorized).JSON(
			httputil.CreateErrorResponse("UNAUTHORIZED", "User ID is required"))
	}

	id, err := parsePoolID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_POOL_ID", "Invalid pool ID format"))
	}

	claimant := c.Params("claimant")
	outcome, err := h.riskPoolService.ProcessClaim(c.Context(), caller, id, claimant)
	if err != nil {
		return respondProtocolError(c, err)
	}

	slog.Info("Claim settled", "pool_id", id, "claimant_id", claimant, "outcome", outcome)
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"pool_id":     id,
		"claimant_id": claimant,
		"outcome":     outcome,
		"approved":    outcome == models.SettlementApproved,
	}))
}
