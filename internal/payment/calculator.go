package payment

import (
	"fmt"
	"strings"

	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/models"
)

// Formula selects which group-payment rule a Calculator applies.
type Formula string

const (
	// FormulaOverflow pays the minimum plus a per-head rate for every
	// attendee above the threshold. Continuous and non-decreasing.
	FormulaOverflow Formula = "overflow"

	// FormulaThreshold pays a flat minimum at or below the threshold and
	// switches to a full per-head total above it. The switch can pay less
	// than the minimum right above the threshold; that discontinuity is
	// part of the rule, not an error.
	FormulaThreshold Formula = "threshold"
)

func ParseFormula(value string) (Formula, error) {
	switch Formula(strings.ToLower(strings.TrimSpace(value))) {
	case FormulaOverflow, Formula(""):
		return FormulaOverflow, nil
	case FormulaThreshold:
		return FormulaThreshold, nil
	default:
		return "", fmt.Errorf("unknown payment formula %q", value)
	}
}

// Calculator derives the payment for a session from the owning studio's
// current policy. It is pure: no I/O, no stored amounts consulted.
type Calculator struct {
	formula Formula
}

func NewCalculator(formula Formula) Calculator {
	return Calculator{formula: formula}
}

// Amount returns the payment for session under studio's policy. A nil studio
// (deleted or out of reach) yields 0 so that statistics stay computable over
// inconsistent historical data. Individual sessions always pay the studio's
// flat individual rate; group sessions pay by the configured formula over the
// stored attendee count, never the declared capacity.
func (c Calculator) Amount(session *models.TrainingSession, studio *models.Studio) float64 {
	if studio == nil {
		return 0
	}
	if session.SessionType == models.SessionTypeIndividual {
		return studio.PaymentIndividual
	}

	count := len(session.Attendees)
	if c.formula == FormulaThreshold {
		if count <= studio.StartCountFrom {
			return studio.MinimumPayment
		}
		return float64(count) * studio.PaymentPerClient
	}

	total := studio.MinimumPayment
	if count > studio.StartCountFrom {
		total += float64(count-studio.StartCountFrom) * studio.PaymentPerClient
	}
	return total
}
