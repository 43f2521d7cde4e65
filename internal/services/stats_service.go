package services

import (
	"context"

	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/models"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/payment"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/repository"
)

type sessionLister interface {
	ListFiltered(ctx context.Context, tenantKey string, filter repository.StatsFilter) ([]models.TrainingSession, error)
}

type studioLister interface {
	ListByTenant(ctx context.Context, tenantKey string) ([]models.Studio, error)
}

// StatsService folds a tenant's sessions into revenue figures. Amounts are
// always recomputed with the active formula and current studio policies;
// nothing stored is trusted as a payment amount.
type StatsService struct {
	sessionRepo sessionLister
	studioRepo  studioLister
	calculator  payment.Calculator
}

func NewStatsService(
	sessionRepo *repository.SessionRepository,
	studioRepo *repository.StudioRepository,
	calculator payment.Calculator,
) *StatsService {
	return &StatsService{
		sessionRepo: sessionRepo,
		studioRepo:  studioRepo,
		calculator:  calculator,
	}
}

func (s *StatsService) Global(ctx context.Context, tenantKey string) (*models.Stats, error) {
	sessions, byID, err := s.load(ctx, tenantKey, repository.StatsFilter{})
	if err != nil {
		return nil, err
	}
	stats := s.fold(sessions, byID)
	return &stats.Stats, nil
}

// Filtered narrows by studio and an inclusive date range, and adds the
// per-type counts plus one summary per session, most recent first.
func (s *StatsService) Filtered(ctx context.Context, tenantKey string, filter repository.StatsFilter) (*models.FilteredStats, error) {
	sessions, byID, err := s.load(ctx, tenantKey, filter)
	if err != nil {
		return nil, err
	}
	return s.fold(sessions, byID), nil
}

func (s *StatsService) load(ctx context.Context, tenantKey string, filter repository.StatsFilter) ([]models.TrainingSession, map[int64]*models.Studio, error) {
	sessions, err := s.sessionRepo.ListFiltered(ctx, tenantKey, filter)
	if err != nil {
		return nil, nil, err
	}
	studios, err := s.studioRepo.ListByTenant(ctx, tenantKey)
	if err != nil {
		return nil, nil, err
	}
	return sessions, studiosByID(studios), nil
}

func (s *StatsService) fold(sessions []models.TrainingSession, byID map[int64]*models.Studio) *models.FilteredStats {
	stats := &models.FilteredStats{
		Sessions: make([]models.SessionSummary, 0, len(sessions)),
	}

	for i := range sessions {
		session := &sessions[i]
		studio := byID[session.StudioID]
		amount := s.calculator.Amount(session, studio)

		stats.TotalSessions++
		stats.TotalAttendees += len(session.Attendees)
		if session.Paid {
			stats.PaidRevenue += amount
		} else {
			stats.PendingRevenue += amount
		}
		switch session.SessionType {
		case models.SessionTypeGroup:
			stats.GroupSessions++
		case models.SessionTypeIndividual:
			stats.IndividualSessions++
		}

		studioName := "Unknown"
		if studio != nil {
			studioName = studio.Name
		}
		stats.Sessions = append(stats.Sessions, models.SessionSummary{
			ID:          session.ID,
			StudioID:    session.StudioID,
			StudioName:  studioName,
			Date:        session.Date,
			Time:        session.Time,
			SessionType: session.SessionType,
			Paid:        session.Paid,
			Attendees:   session.Attendees,
			Payment:     amount,
		})
	}

	return stats
}
