package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"riskpool-service/internal/httputil"
	"riskpool-service/internal/models"
	"riskpool-service/internal/services"
)

type PoolHandler struct {
	riskPoolService *services.RiskPoolService
}

func NewPoolHandler(riskPoolService *services.RiskPoolService) *PoolHandler {
	return &PoolHandler{riskPoolService: riskPoolService}
}

func (h *PoolHandler) Register(app *fiber.App) {
	protectedGr := app.Group("riskpool/protected/api/v1")

	poolGroup := protectedGr.Group("/pools")
	poolGroup.Post("/", h.CreatePool)                // POST /pools
	poolGroup.Get("/count", h.GetPoolCount)          // GET /pools/count
	poolGroup.Get("/exists/:region", h.CheckRegion)  // GET /pools/exists/:region
	poolGroup.Get("/:id", h.GetPool)                 // GET /pools/:id
	poolGroup.Put("/:id", h.UpdatePool)              // PUT /pools/:id
	poolGroup.Post("/:id/close", h.ClosePool)        // POST /pools/:id/close
	poolGroup.Get("/:id/update-log", h.GetUpdateLog) // GET /pools/:id/update-log
}

// parsePoolID parses the :id path parameter.
func parsePoolID(c fiber.Ctx) (uint64, error) {
	return strconv.ParseUint(c.Params("id"), 10, 64)
}

// callerID extracts the verified account identifier injected by the gateway.
func callerID(c fiber.Ctx) string {
	return c.Get("X-User-ID")
}

// CreatePool creates a new risk pool owned by the caller
func (h *PoolHandler) CreatePool(c fiber.Ctx) error {
	caller := callerID(c)
	if caller == "" {
		return c.Status(http.StatusUnauthorized).JSON(
			httputil.CreateErrorResponse("UNAUTHORIZED", "User ID is required"))
	}

	var req models.CreatePoolRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	id, err := h.riskPoolService.CreatePool(c.Context(), caller, req)
	if err != nil {
		return respondProtocolError(c, err)
	}

	slog.Info("Pool created", "pool_id", id, "region", req.Region, "creator", caller)
	return c.Status(http.StatusCreated).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"pool_id": id,
	}))
}

// GetPool retrieves a pool by id
func (h *PoolHandler) GetPool(c fiber.Ctx) error {
	id, err := parsePoolID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_POOL_ID", "Invalid pool ID format"))
	}

	pool, ok := h.riskPoolService.GetPool(c.Context(), id)
	if !ok {
		return c.Status(http.StatusNotFound).JSON(
			httputil.CreateErrorResponse("POOL_NOT_FOUND", "Pool not found"))
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(pool))
}

// GetPoolCount returns the number of pools created so far
func (h *PoolHandler) GetPoolCount(c fiber.Ctx) error {
	count := h.riskPoolService.GetPoolCount(c.Context())
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"count": count,
	}))
}

// CheckRegion reports whether a pool already covers the region
func (h *PoolHandler) CheckRegion(c fiber.Ctx) error {
	region := c.Params("region")
	exists := h.riskPoolService.CheckPoolExistence(c.Context(), region)
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"region": region,
		"exists": exists,
	}))
}

// UpdatePool overwrites a pool's risk parameters (creator only)
func (h *PoolHandler) UpdatePool(c fiber.Ctx) error {
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

	var req models.UpdatePoolRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	if err := h.riskPoolService.UpdatePool(c.Context(), caller, id, req); err != nil {
		return respondProtocolError(c, err)
	}

	slog.Info("Pool updated", "pool_id", id, "updater", caller)
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"pool_id": id,
	}))
}

// ClosePool closes a pool to new joins and claims (creator only)
func (h *PoolHandler) ClosePool(c fiber.Ctx) error {
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

	if err := h.riskPoolService.ClosePool(c.Context(), caller, id); err != nil {
		return respondProtocolError(c, err)
	}

	slog.Info("Pool closed", "pool_id", id)
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"pool_id": id,
		"is_open": false,
	}))
}

// GetUpdateLog returns the most recent risk-parameter edit for a pool
func (h *PoolHandler) GetUpdateLog(c fiber.Ctx) error {
	id, err := parsePoolID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_POOL_ID", "Invalid pool ID format"))
	}

	update, ok := h.riskPoolService.GetPoolUpdate(c.Context(), id)
	if !ok {
		return c.Status(http.StatusNotFound).JSON(
			httputil.CreateErrorResponse("UPDATE_NOT_FOUND", "Pool was never updated"))
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(update))
}
