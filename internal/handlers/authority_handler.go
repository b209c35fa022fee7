package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"riskpool-service/internal/httputil"
	"riskpool-service/internal/models"
	"riskpool-service/internal/services"
)

type AuthorityHandler struct {
	riskPoolService *services.RiskPoolService
}

func NewAuthorityHandler(riskPoolService *services.RiskPoolService) *AuthorityHandler {
	return &AuthorityHandler{riskPoolService: riskPoolService}
}

func (h *AuthorityHandler) Register(app *fiber.App) {
	protectedGr := app.Group("riskpool/protected/api/v1")

	authorityGroup := protectedGr.Group("/authority")
	authorityGroup.Post("/", h.SetAuthority)     // POST /authority
	authorityGroup.Put("/fee", h.SetCreationFee) // PUT /authority/fee
}

// SetAuthority configures the administrative account. First successful call
// wins; the authority is immutable afterwards.
func (h *AuthorityHandler) SetAuthority(c fiber.Ctx) error {
	var req models.SetAuthorityRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}
	if req.AuthorityAccount == "" {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_BODY", "authority_account is required"))
	}

	if err := h.riskPoolService.SetAuthority(c.Context(), req.AuthorityAccount); err != nil {
		return respondProtocolError(c, err)
	}

	slog.Info("Authority account configured", "authority", req.AuthorityAccount)
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"authority_account": req.AuthorityAccount,
	}))
}

// SetCreationFee tunes the pool creation fee. Requires a configured
// authority; carries no further caller restriction.
func (h *AuthorityHandler) SetCreationFee(c fiber.Ctx) error {
	var req models.SetCreationFeeRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	if err := h.riskPoolService.SetCreationFee(c.Context(), req.CreationFee); err != nil {
		return respondProtocolError(c, err)
	}

	slog.Info("Creation fee updated", "fee", req.CreationFee)
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"creation_fee": req.CreationFee,
	}))
}
