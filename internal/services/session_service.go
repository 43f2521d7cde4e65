package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/models"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/payment"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/repository"
)

type SessionService struct {
	db          *pgxpool.Pool
	sessionRepo *repository.SessionRepository
	studioRepo  *repository.StudioRepository
	calculator  payment.Calculator
}

func NewSessionService(
	db *pgxpool.Pool,
	sessionRepo *repository.SessionRepository,
	studioRepo *repository.StudioRepository,
	calculator payment.Calculator,
) *SessionService {
	return &SessionService{
		db:          db,
		sessionRepo: sessionRepo,
		studioRepo:  studioRepo,
		calculator:  calculator,
	}
}

type CreateSessionInput struct {
	StudioID    int64
	Date        string
	Time        string
	Duration    int
	Capacity    int
	CoachName   string
	SessionType string
}

// UpdateSessionInput carries a partial update; nil fields keep their stored
// value.
type UpdateSessionInput struct {
	StudioID    *int64
	Date        *string
	Time        *string
	Duration    *int
	Capacity    *int
	CoachName   *string
	SessionType *string
}

func (input *CreateSessionInput) validate() error {
	if input.StudioID <= 0 {
		return fmt.Errorf("%w: studioId must be a positive id", ErrInvalidInput)
	}
	if err := validateDate(input.Date); err != nil {
		return err
	}
	if err := validateTime(input.Time); err != nil {
		return err
	}
	if input.Duration <= 0 {
		return fmt.Errorf("%w: duration must be greater than 0", ErrInvalidInput)
	}
	if input.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be greater than 0", ErrInvalidInput)
	}
	input.CoachName = strings.TrimSpace(input.CoachName)
	if input.CoachName == "" {
		return fmt.Errorf("%w: coachName must not be empty", ErrInvalidInput)
	}
	if err := validateSessionType(input.SessionType); err != nil {
		return err
	}
	return nil
}

// Dates and times are stored as text, so they are pinned to canonical forms
// that sort the same lexicographically and chronologically.
func validateDate(value string) error {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}
	return nil
}

func validateTime(value string) error {
	if _, err := time.Parse("15:04", value); err != nil {
		return fmt.Errorf("%w: time must be in HH:MM format", ErrInvalidInput)
	}
	return nil
}

func validateSessionType(value string) error {
	if value != models.SessionTypeGroup && value != models.SessionTypeIndividual {
		return fmt.Errorf("%w: sessionType must be %s or %s", ErrInvalidInput, models.SessionTypeGroup, models.SessionTypeIndividual)
	}
	return nil
}

// apply merges the partial update into the stored session and re-validates
// the merged result.
func (input UpdateSessionInput) apply(session *models.TrainingSession) error {
	if input.StudioID != nil {
		session.StudioID = *input.StudioID
	}
	if input.Date != nil {
		session.Date = *input.Date
	}
	if input.Time != nil {
		session.Time = *input.Time
	}
	if input.Duration != nil {
		session.Duration = *input.Duration
	}
	if input.Capacity != nil {
		session.Capacity = *input.Capacity
	}
	if input.CoachName != nil {
		session.CoachName = strings.TrimSpace(*input.CoachName)
	}
	if input.SessionType != nil {
		session.SessionType = *input.SessionType
	}

	merged := CreateSessionInput{
		StudioID:    session.StudioID,
		Date:        session.Date,
		Time:        session.Time,
		Duration:    session.Duration,
		Capacity:    session.Capacity,
		CoachName:   session.CoachName,
		SessionType: session.SessionType,
	}
	if err := merged.validate(); err != nil {
		return err
	}
	session.CoachName = merged.CoachName

	// Capacity can never drop below the names already on the list.
	if session.Capacity < len(session.Attendees) {
		return fmt.Errorf("%w: capacity cannot be below the current attendee count (%d)", ErrInvalidInput, len(session.Attendees))
	}
	return nil
}

// List returns a tenant's sessions with payments derived from the current
// studio policies. Sessions whose studio no longer resolves carry payment 0.
func (s *SessionService) List(ctx context.Context, tenantKey string) ([]models.SessionDetail, error) {
	sessions, err := s.sessionRepo.List(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	studios, err := s.studioRepo.ListByTenant(ctx, tenantKey)
	if err != nil {
		return nil, err
	}
	byID := studiosByID(studios)

	details := make([]models.SessionDetail, 0, len(sessions))
	for _, session := range sessions {
		details = append(details, models.SessionDetail{
			TrainingSession: session,
			Payment:         s.calculator.Amount(&session, byID[session.StudioID]),
		})
	}
	return details, nil
}

func (s *SessionService) Create(ctx context.Context, tenantKey string, input CreateSessionInput) (*models.SessionDetail, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txStudioRepo := repository.NewStudioRepository(tx)
	txSessionRepo := repository.NewSessionRepository(tx)

	// The studio must exist inside the caller's tenant; a foreign id is
	// indistinguishable from a missing one.
	studio, err := txStudioRepo.GetByID(ctx, tenantKey, input.StudioID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudioNotFound
		}
		return nil, err
	}

	session, err := txSessionRepo.Create(ctx, repository.CreateSessionInput{
		TenantKey:   tenantKey,
		StudioID:    input.StudioID,
		Date:        input.Date,
		Time:        input.Time,
		Duration:    input.Duration,
		Capacity:    input.Capacity,
		CoachName:   input.CoachName,
		SessionType: input.SessionType,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &models.SessionDetail{
		TrainingSession: *session,
		Payment:         s.calculator.Amount(session, studio),
	}, nil
}

func (s *SessionService) Update(ctx context.Context, tenantKey string, sessionID int64, input UpdateSessionInput) (*models.SessionDetail, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txStudioRepo := repository.NewStudioRepository(tx)
	txSessionRepo := repository.NewSessionRepository(tx)

	session, err := txSessionRepo.GetByIDForUpdate(ctx, tenantKey, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if err := input.apply(session); err != nil {
		return nil, err
	}

	studio, err := txStudioRepo.GetByID(ctx, tenantKey, session.StudioID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudioNotFound
		}
		return nil, err
	}

	updated, err := txSessionRepo.Update(ctx, session)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &models.SessionDetail{
		TrainingSession: *updated,
		Payment:         s.calculator.Amount(updated, studio),
	}, nil
}

func (s *SessionService) Delete(ctx context.Context, tenantKey string, sessionID int64) error {
	deleted, err := s.sessionRepo.Delete(ctx, tenantKey, sessionID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSessionNotFound
	}
	return nil
}

func (s *SessionService) AddAttendee(ctx context.Context, tenantKey string, sessionID int64, name string) (*models.AttendeeUpdate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: attendee name must not be empty", ErrInvalidInput)
	}
	return s.mutateAttendees(ctx, tenantKey, sessionID, func(session *models.TrainingSession) ([]string, bool) {
		return addAttendeeName(session.Attendees, name, session.Capacity)
	})
}

func (s *SessionService) RemoveAttendee(ctx context.Context, tenantKey string, sessionID int64, name string) (*models.AttendeeUpdate, error) {
	name = strings.TrimSpace(name)
	return s.mutateAttendees(ctx, tenantKey, sessionID, func(session *models.TrainingSession) ([]string, bool) {
		return removeAttendeeName(session.Attendees, name)
	})
}

// mutateAttendees runs one attendee read-modify-write under a row lock. A
// mutation that reports no change skips the write entirely.
func (s *SessionService) mutateAttendees(
	ctx context.Context,
	tenantKey string,
	sessionID int64,
	mutate func(*models.TrainingSession) ([]string, bool),
) (*models.AttendeeUpdate, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)
	txStudioRepo := repository.NewStudioRepository(tx)

	session, err := txSessionRepo.GetByIDForUpdate(ctx, tenantKey, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if attendees, changed := mutate(session); changed {
		session, err = txSessionRepo.UpdateAttendees(ctx, tenantKey, sessionID, attendees)
		if err != nil {
			return nil, err
		}
	}

	studio, err := s.resolveStudio(ctx, txStudioRepo, tenantKey, session.StudioID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &models.AttendeeUpdate{
		Attendees: session.Attendees,
		Payment:   s.calculator.Amount(session, studio),
	}, nil
}

func (s *SessionService) MarkPaid(ctx context.Context, tenantKey string, sessionID int64) (*models.SessionDetail, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)
	txStudioRepo := repository.NewStudioRepository(tx)

	// Unconditional and idempotent: paying an already-paid session is fine.
	session, err := txSessionRepo.MarkPaid(ctx, tenantKey, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	studio, err := s.resolveStudio(ctx, txStudioRepo, tenantKey, session.StudioID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &models.SessionDetail{
		TrainingSession: *session,
		Payment:         s.calculator.Amount(session, studio),
	}, nil
}

// resolveStudio tolerates a dangling studio reference: payment degrades to 0
// instead of failing the whole operation.
func (s *SessionService) resolveStudio(ctx context.Context, repo *repository.StudioRepository, tenantKey string, studioID int64) (*models.Studio, error) {
	studio, err := repo.GetByID(ctx, tenantKey, studioID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return studio, nil
}

func addAttendeeName(attendees []string, name string, capacity int) ([]string, bool) {
	for _, existing := range attendees {
		if existing == name {
			return attendees, false
		}
	}
	if len(attendees) >= capacity {
		return attendees, false
	}
	return append(append([]string{}, attendees...), name), true
}

func removeAttendeeName(attendees []string, name string) ([]string, bool) {
	for i, existing := range attendees {
		if existing == name {
			fresh := append([]string{}, attendees[:i]...)
			return append(fresh, attendees[i+1:]...), true
		}
	}
	return attendees, false
}

func studiosByID(studios []models.Studio) map[int64]*models.Studio {
	byID := make(map[int64]*models.Studio, len(studios))
	for i := range studios {
		byID[studios[i].ID] = &studios[i]
	}
	return byID
}
