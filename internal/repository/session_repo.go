package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/models"
)

type CreateSessionInput struct {
	TenantKey   string
	StudioID    int64
	Date        string
	Time        string
	Duration    int
	Capacity    int
	CoachName   string
	SessionType string
}

// StatsFilter narrows a tenant's sessions for statistics. Date bounds are
// inclusive and compared on the canonical YYYY-MM-DD text form.
type StatsFilter struct {
	StudioID *int64
	DateFrom string
	DateTo   string
}

const sessionColumns = "id, tenant_key, studio_id, date, time, duration, capacity, coach_name, session_type, paid, attendees"

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, input CreateSessionInput) (*models.TrainingSession, error) {
	query := `
		INSERT INTO training_sessions (tenant_key, studio_id, date, time, duration, capacity, coach_name, session_type, paid, attendees)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, '[]')
		RETURNING ` + sessionColumns
	row := r.db.QueryRow(
		ctx,
		query,
		input.TenantKey,
		input.StudioID,
		input.Date,
		input.Time,
		input.Duration,
		input.Capacity,
		input.CoachName,
		input.SessionType,
	)
	return scanSession(row)
}

func (r *SessionRepository) GetByID(ctx context.Context, tenantKey string, sessionID int64) (*models.TrainingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM training_sessions WHERE tenant_key = $1 AND id = $2`
	return scanSession(r.db.QueryRow(ctx, query, tenantKey, sessionID))
}

func (r *SessionRepository) GetByIDForUpdate(ctx context.Context, tenantKey string, sessionID int64) (*models.TrainingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM training_sessions WHERE tenant_key = $1 AND id = $2 FOR UPDATE`
	return scanSession(r.db.QueryRow(ctx, query, tenantKey, sessionID))
}

func (r *SessionRepository) List(ctx context.Context, tenantKey string) ([]models.TrainingSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM training_sessions
		WHERE tenant_key = $1
		ORDER BY date ASC, time ASC, id ASC
	`
	return r.queryList(ctx, query, tenantKey)
}

// ListFiltered returns a tenant's sessions matching the filter, most recent
// (date, time) first.
func (r *SessionRepository) ListFiltered(ctx context.Context, tenantKey string, filter StatsFilter) ([]models.TrainingSession, error) {
	args := []any{tenantKey}
	whereParts := []string{"tenant_key = $1"}

	if filter.StudioID != nil {
		args = append(args, *filter.StudioID)
		whereParts = append(whereParts, fmt.Sprintf("studio_id = $%d", len(args)))
	}
	if filter.DateFrom != "" {
		args = append(args, filter.DateFrom)
		whereParts = append(whereParts, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.DateTo != "" {
		args = append(args, filter.DateTo)
		whereParts = append(whereParts, fmt.Sprintf("date <= $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM training_sessions
		WHERE %s
		ORDER BY date DESC, time DESC, id DESC
	`, sessionColumns, strings.Join(whereParts, " AND "))

	return r.queryList(ctx, query, args...)
}

func (r *SessionRepository) Update(ctx context.Context, session *models.TrainingSession) (*models.TrainingSession, error) {
	query := `
		UPDATE training_sessions
		SET studio_id = $3, date = $4, time = $5, duration = $6, capacity = $7, coach_name = $8, session_type = $9
		WHERE tenant_key = $1 AND id = $2
		RETURNING ` + sessionColumns
	row := r.db.QueryRow(
		ctx,
		query,
		session.TenantKey,
		session.ID,
		session.StudioID,
		session.Date,
		session.Time,
		session.Duration,
		session.Capacity,
		session.CoachName,
		session.SessionType,
	)
	return scanSession(row)
}

func (r *SessionRepository) UpdateAttendees(ctx context.Context, tenantKey string, sessionID int64, attendees []string) (*models.TrainingSession, error) {
	encoded, err := json.Marshal(attendees)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE training_sessions
		SET attendees = $3
		WHERE tenant_key = $1 AND id = $2
		RETURNING ` + sessionColumns
	return scanSession(r.db.QueryRow(ctx, query, tenantKey, sessionID, string(encoded)))
}

func (r *SessionRepository) MarkPaid(ctx context.Context, tenantKey string, sessionID int64) (*models.TrainingSession, error) {
	query := `
		UPDATE training_sessions
		SET paid = TRUE
		WHERE tenant_key = $1 AND id = $2
		RETURNING ` + sessionColumns
	return scanSession(r.db.QueryRow(ctx, query, tenantKey, sessionID))
}

func (r *SessionRepository) Delete(ctx context.Context, tenantKey string, sessionID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM training_sessions WHERE tenant_key = $1 AND id = $2`, tenantKey, sessionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *SessionRepository) CountByStudio(ctx context.Context, tenantKey string, studioID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM training_sessions WHERE tenant_key = $1 AND studio_id = $2`,
		tenantKey,
		studioID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SessionRepository) queryList(ctx context.Context, query string, args ...any) ([]models.TrainingSession, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.TrainingSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.TrainingSession, error) {
	var session models.TrainingSession
	var attendees string
	err := row.Scan(
		&session.ID,
		&session.TenantKey,
		&session.StudioID,
		&session.Date,
		&session.Time,
		&session.Duration,
		&session.Capacity,
		&session.CoachName,
		&session.SessionType,
		&session.Paid,
		&attendees,
	)
	if err != nil {
		return nil, err
	}
	if attendees == "" {
		attendees = "[]"
	}
	if err := json.Unmarshal([]byte(attendees), &session.Attendees); err != nil {
		return nil, fmt.Errorf("decode attendees for session %d: %w", session.ID, err)
	}
	if session.Attendees == nil {
		session.Attendees = []string{}
	}
	return &session, nil
}
