package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/middleware"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/models"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/services"
)

type studioApplicationService interface {
	List(ctx context.Context, tenantKey string) ([]models.Studio, error)
	Create(ctx context.Context, tenantKey string, input services.StudioInput) (*models.Studio, error)
	Update(ctx context.Context, tenantKey string, studioID int64, input services.StudioInput) (*models.Studio, error)
	Delete(ctx context.Context, tenantKey string, studioID int64) error
}

type StudioHandler struct {
	service studioApplicationService
}

func NewStudioHandler(service *services.StudioService) *StudioHandler {
	return &StudioHandler{service: service}
}

// studioRequest uses pointers so missing fields are distinguishable from
// zero values.
type studioRequest struct {
	Name              *string  `json:"name"`
	PaymentPerClient  *float64 `json:"paymentPerClient"`
	MinimumPayment    *float64 `json:"minimumPayment"`
	StartCountFrom    *int     `json:"startCountFrom"`
	PaymentIndividual *float64 `json:"paymentIndividual"`
	Color             *string  `json:"color"`
}

func (req *studioRequest) toInput(c *fiber.Ctx) (services.StudioInput, bool) {
	required := []struct {
		field   string
		missing bool
	}{
		{"name", req.Name == nil},
		{"paymentPerClient", req.PaymentPerClient == nil},
		{"minimumPayment", req.MinimumPayment == nil},
		{"startCountFrom", req.StartCountFrom == nil},
		{"paymentIndividual", req.PaymentIndividual == nil},
	}
	for _, check := range required {
		if check.missing {
			_ = errorJSON(c, fiber.StatusBadRequest, errKindInvalid, check.field+" is required")
			return services.StudioInput{}, false
		}
	}

	input := services.StudioInput{
		Name:              *req.Name,
		PaymentPerClient:  *req.PaymentPerClient,
		MinimumPayment:    *req.MinimumPayment,
		StartCountFrom:    *req.StartCountFrom,
		PaymentIndividual: *req.PaymentIndividual,
	}
	if req.Color != nil {
		input.Color = *req.Color
	}
	return input, true
}

func (h *StudioHandler) ListStudios(c *fiber.Ctx) error {
	studios, err := h.service.List(c.Context(), middleware.TenantKey(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(studios)
}

func (h *StudioHandler) CreateStudio(c *fiber.Ctx) error {
	var req studioRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, errKindInvalid, "Invalid request body")
	}
	input, ok := req.toInput(c)
	if !ok {
		return nil
	}

	studio, err := h.service.Create(c.Context(), middleware.TenantKey(c), input)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(studio)
}

func (h *StudioHandler) UpdateStudio(c *fiber.Ctx) error {
	studioID, err := parseIDParam(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, errKindInvalid, "Invalid studio id")
	}

	var req studioRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, errKindInvalid, "Invalid request body")
	}
	input, ok := req.toInput(c)
	if !ok {
		return nil
	}

	studio, err := h.service.Update(c.Context(), middleware.TenantKey(c), studioID, input)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(studio)
}

func (h *StudioHandler) DeleteStudio(c *fiber.Ctx) error {
	studioID, err := parseIDParam(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, errKindInvalid, "Invalid studio id")
	}

	if err := h.service.Delete(c.Context(), middleware.TenantKey(c), studioID); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Studio deleted successfully"})
}

func parseIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.ErrBadRequest
	}
	return id, nil
}
