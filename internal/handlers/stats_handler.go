package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/middleware"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/models"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/repository"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/services"
)

type statsApplicationService interface {
	Global(ctx context.Context, tenantKey string) (*models.Stats, error)
	Filtered(ctx context.Context, tenantKey string, filter repository.StatsFilter) (*models.FilteredStats, error)
}

type StatsHandler struct {
	service statsApplicationService
}

func NewStatsHandler(service *services.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.Global(c.Context(), middleware.TenantKey(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(stats)
}

func (h *StatsHandler) GetFilteredStats(c *fiber.Ctx) error {
	var filter repository.StatsFilter

	if raw := strings.TrimSpace(c.Query("studioId")); raw != "" {
		studioID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || studioID <= 0 {
			return errorJSON(c, fiber.StatusBadRequest, errKindInvalid, "studioId must be a positive id")
		}
		filter.StudioID = &studioID
	}

	dateFrom, ok := parseDateQuery(c, "dateFrom")
	if !ok {
		return nil
	}
	dateTo, ok := parseDateQuery(c, "dateTo")
	if !ok {
		return nil
	}
	filter.DateFrom = dateFrom
	filter.DateTo = dateTo

	stats, err := h.service.Filtered(c.Context(), middleware.TenantKey(c), filter)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(stats)
}

func parseDateQuery(c *fiber.Ctx, key string) (string, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return "", true
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		_ = errorJSON(c, fiber.StatusBadRequest, errKindInvalid, key+" must be in YYYY-MM-DD format")
		return "", false
	}
	return raw, true
}
