package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/models"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/repository"
)

var (
	ErrStudioNotFound  = errors.New("studio not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrStudioInUse     = errors.New("studio has training sessions")
	ErrInvalidInput    = errors.New("invalid input")
)

type StudioService struct {
	db          *pgxpool.Pool
	studioRepo  *repository.StudioRepository
	sessionRepo *repository.SessionRepository
}

func NewStudioService(
	db *pgxpool.Pool,
	studioRepo *repository.StudioRepository,
	sessionRepo *repository.SessionRepository,
) *StudioService {
	return &StudioService{
		db:          db,
		studioRepo:  studioRepo,
		sessionRepo: sessionRepo,
	}
}

type StudioInput struct {
	Name              string
	PaymentPerClient  float64
	MinimumPayment    float64
	StartCountFrom    int
	PaymentIndividual float64
	Color             string
}

func (input *StudioInput) validate() error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	if input.PaymentPerClient < 0 || input.MinimumPayment < 0 || input.PaymentIndividual < 0 {
		return fmt.Errorf("%w: payment amounts must not be negative", ErrInvalidInput)
	}
	if input.StartCountFrom < 0 {
		return fmt.Errorf("%w: startCountFrom must not be negative", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Color) == "" {
		input.Color = models.DefaultStudioColor
	}
	return nil
}

func (s *StudioService) List(ctx context.Context, tenantKey string) ([]models.Studio, error) {
	return s.studioRepo.ListByTenant(ctx, tenantKey)
}

func (s *StudioService) Create(ctx context.Context, tenantKey string, input StudioInput) (*models.Studio, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	studio := &models.Studio{
		TenantKey:         tenantKey,
		Name:              input.Name,
		PaymentPerClient:  input.PaymentPerClient,
		MinimumPayment:    input.MinimumPayment,
		StartCountFrom:    input.StartCountFrom,
		PaymentIndividual: input.PaymentIndividual,
		Color:             input.Color,
	}
	if err := s.studioRepo.Create(ctx, studio); err != nil {
		return nil, err
	}
	return studio, nil
}

func (s *StudioService) Update(ctx context.Context, tenantKey string, studioID int64, input StudioInput) (*models.Studio, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	updated, err := s.studioRepo.Update(ctx, &models.Studio{
		ID:                studioID,
		TenantKey:         tenantKey,
		Name:              input.Name,
		PaymentPerClient:  input.PaymentPerClient,
		MinimumPayment:    input.MinimumPayment,
		StartCountFrom:    input.StartCountFrom,
		PaymentIndividual: input.PaymentIndividual,
		Color:             input.Color,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudioNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a studio after checking nothing references it. The check and
// the delete share a transaction so a session created in between cannot be
// orphaned.
func (s *StudioService) Delete(ctx context.Context, tenantKey string, studioID int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txStudioRepo := repository.NewStudioRepository(tx)
	txSessionRepo := repository.NewSessionRepository(tx)

	if _, err := txStudioRepo.GetByID(ctx, tenantKey, studioID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrStudioNotFound
		}
		return err
	}

	count, err := txSessionRepo.CountByStudio(ctx, tenantKey, studioID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("cannot delete studio: it has %d training session(s) associated with it: %w", count, ErrStudioInUse)
	}

	deleted, err := txStudioRepo.Delete(ctx, tenantKey, studioID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrStudioNotFound
	}

	return tx.Commit(ctx)
}
