package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/middleware"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/models"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/services"
)

type stubSessionService struct {
	listResult     []models.SessionDetail
	listErr        error
	createResult   *models.SessionDetail
	createErr      error
	updateResult   *models.SessionDetail
	updateErr      error
	deleteErr      error
	attendeeResult *models.AttendeeUpdate
	attendeeErr    error
	markPaidResult *models.SessionDetail
	markPaidErr    error
	lastTenant     string
	lastSessionID  int64
	lastName       string
	lastCreate     services.CreateSessionInput
	lastUpdate     services.UpdateSessionInput
}

func (s *stubSessionService) List(_ context.Context, tenantKey string) ([]models.SessionDetail, error) {
	s.lastTenant = tenantKey
	return s.listResult, s.listErr
}

func (s *stubSessionService) Create(_ context.Context, tenantKey string, input services.CreateSessionInput) (*models.SessionDetail, error) {
	s.lastTenant = tenantKey
	s.lastCreate = input
	return s.createResult, s.createErr
}

func (s *stubSessionService) Update(_ context.Context, tenantKey string, sessionID int64, input services.UpdateSessionInput) (*models.SessionDetail, error) {
	s.lastTenant = tenantKey
	s.lastSessionID = sessionID
	s.lastUpdate = input
	return s.updateResult, s.updateErr
}

func (s *stubSessionService) Delete(_ context.Context, tenantKey string, sessionID int64) error {
	s.lastTenant = tenantKey
	s.lastSessionID = sessionID
	return s.deleteErr
}

func (s *stubSessionService) AddAttendee(_ context.Context, tenantKey string, sessionID int64, name string) (*models.AttendeeUpdate, error) {
	s.lastTenant = tenantKey
	s.lastSessionID = sessionID
	s.lastName = name
	return s.attendeeResult, s.attendeeErr
}

func (s *stubSessionService) RemoveAttendee(_ context.Context, tenantKey string, sessionID int64, name string) (*models.AttendeeUpdate, error) {
	s.lastTenant = tenantKey
	s.lastSessionID = sessionID
	s.lastName = name
	return s.attendeeResult, s.attendeeErr
}

func (s *stubSessionService) MarkPaid(_ context.Context, tenantKey string, sessionID int64) (*models.SessionDetail, error) {
	s.lastTenant = tenantKey
	s.lastSessionID = sessionID
	return s.markPaidResult, s.markPaidErr
}

func newSessionApp(service *stubSessionService) *fiber.App {
	handler := &SessionHandler{service: service}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.TenantKeyLocal, "tg_42")
		return c.Next()
	})
	app.Get("/api/sessions", handler.ListSessions)
	app.Post("/api/sessions", handler.CreateSession)
	app.Put("/api/sessions/:id", handler.UpdateSession)
	app.Delete("/api/sessions/:id", handler.DeleteSession)
	app.Post("/api/sessions/:id/attendees", handler.AddAttendee)
	app.Delete("/api/sessions/:id/attendees/:name", handler.RemoveAttendee)
	app.Put("/api/sessions/:id/mark-paid", handler.MarkPaid)
	return app
}

func TestCreateSessionReturnsDerivedPayment(t *testing.T) {
	service := &stubSessionService{
		createResult: &models.SessionDetail{
			TrainingSession: models.TrainingSession{
				ID:          9,
				StudioID:    5,
				Date:        "2024-02-10",
				Time:        "09:00",
				SessionType: models.SessionTypeGroup,
				Attendees:   []string{},
			},
			Payment: 20,
		},
	}
	app := newSessionApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(`{
		"studioId": 5,
		"date": "2024-02-10",
		"time": "09:00",
		"duration": 60,
		"capacity": 8,
		"coachName": "Antonina",
		"sessionType": "Group"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if service.lastCreate.StudioID != 5 || service.lastCreate.SessionType != "Group" {
		t.Errorf("unexpected input: %+v", service.lastCreate)
	}

	var detail models.SessionDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.Payment != 20 {
		t.Errorf("payment = %v, want 20", detail.Payment)
	}
}

func TestCreateSessionRequiresAllFields(t *testing.T) {
	app := newSessionApp(&stubSessionService{})

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(`{
		"studioId": 5,
		"date": "2024-02-10"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	kind, message := decodeErrorBody(t, resp)
	if kind != "invalid" || message != "time is required" {
		t.Errorf("got %q/%q, want invalid/time is required", kind, message)
	}
}

func TestUpdateSessionPassesPartialFields(t *testing.T) {
	service := &stubSessionService{
		updateResult: &models.SessionDetail{
			TrainingSession: models.TrainingSession{ID: 9, Date: "2024-03-01"},
		},
	}
	app := newSessionApp(service)

	req := httptest.NewRequest(http.MethodPut, "/api/sessions/9", strings.NewReader(`{
		"date": "2024-03-01"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if service.lastUpdate.Date == nil || *service.lastUpdate.Date != "2024-03-01" {
		t.Errorf("date not passed: %+v", service.lastUpdate)
	}
	if service.lastUpdate.Duration != nil || service.lastUpdate.StudioID != nil {
		t.Errorf("absent fields must stay nil: %+v", service.lastUpdate)
	}
}

func TestAddAttendeeReturnsListAndPayment(t *testing.T) {
	service := &stubSessionService{
		attendeeResult: &models.AttendeeUpdate{Attendees: []string{"Anna"}, Payment: 20},
	}
	app := newSessionApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/9/attendees", strings.NewReader(`{"name": "Anna"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if service.lastSessionID != 9 || service.lastName != "Anna" {
		t.Errorf("service called with %d/%q", service.lastSessionID, service.lastName)
	}

	var result models.AttendeeUpdate
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Attendees) != 1 || result.Payment != 20 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestRemoveAttendeeUnescapesName(t *testing.T) {
	service := &stubSessionService{
		attendeeResult: &models.AttendeeUpdate{Attendees: []string{}, Payment: 0},
	}
	app := newSessionApp(service)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/sessions/9/attendees/Anna%20Petrova", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if service.lastName != "Anna Petrova" {
		t.Errorf("name = %q, want Anna Petrova", service.lastName)
	}
}

func TestMarkPaidMapsNotFound(t *testing.T) {
	service := &stubSessionService{markPaidErr: services.ErrSessionNotFound}
	app := newSessionApp(service)

	resp, err := app.Test(httptest.NewRequest(http.MethodPut, "/api/sessions/9/mark-paid", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	kind, _ := decodeErrorBody(t, resp)
	if kind != "not_found" {
		t.Errorf("kind = %q, want not_found", kind)
	}
}
