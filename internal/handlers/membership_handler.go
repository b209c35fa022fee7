package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"riskpool-service/internal/httputil"
	"riskpool-service/internal/models"
	"riskpool-service/internal/services"
)

type MembershipHandler struct {
	riskPoolService *services.RiskPoolService
}

func NewMembershipHandler(riskPoolService *services.RiskPoolService) *MembershipHandler {
	return &MembershipHandler{riskPoolService: riskPoolService}
}

func (h *MembershipHandler) Register(app *fiber.App) {
	protectedGr := app.Group("riskpool/protected/api/v1")

	memberGroup := protectedGr.Group("/pools/:id/members")
	memberGroup.Post("/", h.JoinPool)             // POST /pools/:id/members
	memberGroup.Get("/:account", h.GetMembership) // GET /pools/:id/members/:account
}

// JoinPool contributes funds and records the caller as a pool member.
// Membership is permanent; contributions are never refunded.
func (h *MembershipHandler) JoinPool(c fiber.Ctx) error {
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

	var req models.JoinPoolRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	if err := h.riskPoolService.JoinPool(c.Context(), caller, id, req.Contribution); err != nil {
		return respondProtocolError(c, err)
	}

	slog.Info("Member joined pool", "pool_id", id, "account_id", caller, "contribution", req.Contribution)
	return c.Status(http.StatusCreated).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"pool_id":      id,
		"account_id":   caller,
		"contribution": req.Contribution,
	}))
}

// GetMembership retrieves one membership record
func (h *MembershipHandler) GetMembership(c fiber.Ctx) error {
	id, err := parsePoolID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_POOL_ID", "Invalid pool ID format"))
	}

	account := c.Params("account")
	membership, ok := h.riskPoolService.GetMembership(c.Context(), id, account)
	if !ok {
		return c.Status(http.StatusNotFound).JSON(
			httputil.CreateErrorResponse("NOT_MEMBER", "Account is not a member of this pool"))
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(membership))
}
