package handlers

import (
	"context"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/middleware"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/models"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/services"
)

type sessionApplicationService interface {
	List(ctx context.Context, tenantKey string) ([]models.SessionDetail, error)
	Create(ctx context.Context, tenantKey string, input services.CreateSessionInput) (*models.SessionDetail, error)
	Update(ctx context.Context, tenantKey string, sessionID int64, input services.UpdateSessionInput) (*models.SessionDetail, error)
	Delete(ctx context.Context, tenantKey string, sessionID int64) error
	AddAttendee(ctx context.Context, tenantKey string, sessionID int64, name string) (*models.AttendeeUpdate, error)
	RemoveAttendee(ctx context.Context, tenantKey string, sessionID int64, name string) (*models.AttendeeUpdate, error)
	MarkPaid(ctx context.Context, tenantKey string, sessionID int64) (*models.SessionDetail, error)
}

type SessionHandler struct {
	service sessionApplicationService
}

func NewSessionHandler(service *services.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

type sessionRequest struct {
	StudioID    *int64  `json:"studioId"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Duration    *int    `json:"duration"`
	Capacity    *int    `json:"capacity"`
	CoachName   *string `json:"coachName"`
	SessionType *string `json:"sessionType"`
}

type addAttendeeRequest struct {
	Name *string `json:"name"`
}

func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	sessions, err := h.service.List(c.Context(), middleware.TenantKey(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(sessions)
}

func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	var req sessionRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, errKindInvalid, "Invalid request body")
	}

	required := []struct {
		field   string
		missing bool
	}{
		{"studioId", req.StudioID == nil},
		{"date", req.Date == nil},
		{"time", req.Time == nil},
		{"duration", req.Duration == nil},
		{"capacity", req.Capacity == nil},
		{"coachName", req.CoachName == nil},
		{"sessionType", req.SessionType == nil},
	}
	for _, check := range required {
		if check.missing {
			return errorJSON(c, fiber.StatusBadRequest, errKindInvalid, check.field+" is required")
		}
	}

	session, err := h.service.Create(c.Context(), middleware.TenantKey(c), services.CreateSessionInput{
		StudioID:    *req.StudioID,
		Date:        *req.Date,
		Time:        *req.Time,
		Duration:    *req.Duration,
		Capacity:    *req.Capacity,
		CoachName:   *req.CoachName,
		SessionType: *req.SessionType,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *SessionHandler) UpdateSession(c *fiber.Ctx) error {
	sessionID, err := parseIDParam(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, errKindInvalid, "Invalid session id")
	}

	var req sessionRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, errKindInvalid, "Invalid request body")
	}

	session, err := h.service.Update(c.Context(), middleware.TenantKey(c), sessionID, services.UpdateSessionInput{
		StudioID:    req.StudioID,
		Date:        req.Date,
		Time:        req.Time,
		Duration:    req.Duration,
		Capacity:    req.Capacity,
		CoachName:   req.CoachName,
		SessionType: req.SessionType,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(session)
}

func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	sessionID, err := parseIDParam(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, errKindInvalid, "Invalid session id")
	}

	if err := h.service.Delete(c.Context(), middleware.TenantKey(c), sessionID); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Session deleted successfully"})
}

func (h *SessionHandler) AddAttendee(c *fiber.Ctx) error {
	sessionID, err := parseIDParam(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, errKindInvalid, "Invalid session id")
	}

	var req addAttendeeRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, errKindInvalid, "Invalid request body")
	}
	if req.Name == nil {
		return errorJSON(c, fiber.StatusBadRequest, errKindInvalid, "name is required")
	}

	result, err := h.service.AddAttendee(c.Context(), middleware.TenantKey(c), sessionID, *req.Name)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(result)
}

func (h *SessionHandler) RemoveAttendee(c *fiber.Ctx) error {
	sessionID, err := parseIDParam(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, errKindInvalid, "Invalid session id")
	}

	name, err := unescapeNameParam(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, errKindInvalid, "Invalid attendee name")
	}

	result, err := h.service.RemoveAttendee(c.Context(), middleware.TenantKey(c), sessionID, name)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(result)
}

func (h *SessionHandler) MarkPaid(c *fiber.Ctx) error {
	sessionID, err := parseIDParam(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, errKindInvalid, "Invalid session id")
	}

	session, err := h.service.MarkPaid(c.Context(), middleware.TenantKey(c), sessionID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(session)
}

// Attendee names may contain spaces and non-ASCII characters, which arrive
// percent-encoded in the path.
func unescapeNameParam(c *fiber.Ctx) (string, error) {
	return url.PathUnescape(c.Params("name"))
}
