package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/middleware"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/models"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/services"
)

type stubStudioService struct {
	listResult   []models.Studio
	listErr      error
	createResult *models.Studio
	createErr    error
	updateResult *models.Studio
	updateErr    error
	deleteErr    error
	lastTenant   string
	lastStudioID int64
	lastInput    services.StudioInput
}

func (s *stubStudioService) List(_ context.Context, tenantKey string) ([]models.Studio, error) {
	s.lastTenant = tenantKey
	return s.listResult, s.listErr
}

func (s *stubStudioService) Create(_ context.Context, tenantKey string, input services.StudioInput) (*models.Studio, error) {
	s.lastTenant = tenantKey
	s.lastInput = input
	return s.createResult, s.createErr
}

func (s *stubStudioService) Update(_ context.Context, tenantKey string, studioID int64, input services.StudioInput) (*models.Studio, error) {
	s.lastTenant = tenantKey
	s.lastStudioID = studioID
	s.lastInput = input
	return s.updateResult, s.updateErr
}

func (s *stubStudioService) Delete(_ context.Context, tenantKey string, studioID int64) error {
	s.lastTenant = tenantKey
	s.lastStudioID = studioID
	return s.deleteErr
}

func newStudioApp(service *stubStudioService) *fiber.App {
	handler := &StudioHandler{service: service}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.TenantKeyLocal, "tg_42")
		return c.Next()
	})
	app.Get("/api/studios", handler.ListStudios)
	app.Post("/api/studios", handler.CreateStudio)
	app.Put("/api/studios/:id", handler.UpdateStudio)
	app.Delete("/api/studios/:id", handler.DeleteStudio)
	return app
}

func decodeErrorBody(t *testing.T, resp *http.Response) (kind, message string) {
	t.Helper()
	var body struct {
		Error struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Kind, body.Error.Message
}

func TestCreateStudioReturnsCreatedEntity(t *testing.T) {
	service := &stubStudioService{
		createResult: &models.Studio{ID: 5, Name: "Flex Loft", PaymentPerClient: 6, Color: "#FF6B6B"},
	}
	app := newStudioApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/studios", strings.NewReader(`{
		"name": "Flex Loft",
		"paymentPerClient": 6,
		"minimumPayment": 20,
		"startCountFrom": 3,
		"paymentIndividual": 35
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if service.lastTenant != "tg_42" {
		t.Errorf("tenant = %q, want tg_42", service.lastTenant)
	}
	if service.lastInput.Name != "Flex Loft" || service.lastInput.StartCountFrom != 3 {
		t.Errorf("unexpected input: %+v", service.lastInput)
	}

	var studio models.Studio
	if err := json.NewDecoder(resp.Body).Decode(&studio); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if studio.ID != 5 {
		t.Errorf("id = %d, want 5", studio.ID)
	}
}

func TestCreateStudioRejectsMissingFields(t *testing.T) {
	service := &stubStudioService{}
	app := newStudioApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/studios", strings.NewReader(`{
		"paymentPerClient": 6
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
	if kind != "invalid" {
		t.Errorf("kind = %q, want invalid", kind)
	}
	if message != "name is required" {
		t.Errorf("message = %q, want name is required", message)
	}
}

func TestUpdateStudioMapsNotFound(t *testing.T) {
	service := &stubStudioService{updateErr: services.ErrStudioNotFound}
	app := newStudioApp(service)

	req := httptest.NewRequest(http.MethodPut, "/api/studios/77", strings.NewReader(`{
		"name": "Flex Loft",
		"paymentPerClient": 6,
		"minimumPayment": 20,
		"startCountFrom": 3,
		"paymentIndividual": 35
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if service.lastStudioID != 77 {
		t.Errorf("studio id = %d, want 77", service.lastStudioID)
	}
	kind, _ := decodeErrorBody(t, resp)
	if kind != "not_found" {
		t.Errorf("kind = %q, want not_found", kind)
	}
}

func TestDeleteStudioMapsConflictTo400(t *testing.T) {
	service := &stubStudioService{
		deleteErr: fmt.Errorf("cannot delete studio: it has 2 training session(s) associated with it: %w", services.ErrStudioInUse),
	}
	app := newStudioApp(service)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/studios/5", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	kind, message := decodeErrorBody(t, resp)
	if kind != "conflict" {
		t.Errorf("kind = %q, want conflict", kind)
	}
	if !strings.Contains(message, "2 training session(s)") {
		t.Errorf("message %q should mention the session count", message)
	}
}

func TestDeleteStudioRejectsBadID(t *testing.T) {
	app := newStudioApp(&stubStudioService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/studios/abc", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListStudiosUsesResolvedTenant(t *testing.T) {
	service := &stubStudioService{listResult: []models.Studio{{ID: 1, Name: "Flex Loft"}}}
	app := newStudioApp(service)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/studios", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if service.lastTenant != "tg_42" {
		t.Errorf("tenant = %q, want tg_42", service.lastTenant)
	}
}
