// Package stats derives dashboard aggregates from the offence list. All
// computations are pure functions over a snapshot; the Recorder keeps a
// cached summary current by subscribing to repository change events.
package stats

import (
	"strings"

	"github.com/frscdev/offence-register/internal/models"
)

// Summary holds the admin dashboard aggregates.
type Summary struct {
	TotalOffences     int      `json:"totalOffences"`
	TotalFines        float64  `json:"totalFines"`
	PaidAmount        float64  `json:"paidAmount"`
	PendingAmount     float64  `json:"pendingAmount"`
	PendingCount      int      `json:"pendingCount"`
	MostCommonOffence string   `json:"mostCommonOffence"`
	RepeatOffenders   []string `json:"repeatOffenders"`
}

// VehicleSummary holds the per-vehicle dashboard aggregates.
type VehicleSummary struct {
	TotalOffences int     `json:"totalOffences"`
	PendingAmount float64 `json:"pendingAmount"`
	PaidAmount    float64 `json:"paidAmount"`
}

// Summarize computes the admin dashboard aggregates.
func Summarize(offences []models.Offence) Summary {
	s := Summary{
		TotalOffences:     len(offences),
		MostCommonOffence: MostCommonOffence(offences),
		RepeatOffenders:   RepeatOffenders(offences),
	}
	for _, off := range offences {
		s.TotalFines += off.FineAmount
		if off.PaymentStatus == models.PaymentPaid {
			s.PaidAmount += off.FineAmount
		} else {
			s.PendingCount++
		}
	}
	s.PendingAmount = s.TotalFines - s.PaidAmount
	return s
}

// SummarizeVehicle computes the user dashboard aggregates for one vehicle's
// records.
func SummarizeVehicle(offences []models.Offence) VehicleSummary {
	s := VehicleSummary{TotalOffences: len(offences)}
	for _, off := range offences {
		if off.PaymentStatus == models.PaymentPaid {
			s.PaidAmount += off.FineAmount
		} else {
			s.PendingAmount += off.FineAmount
		}
	}
	return s
}

// MostCommonOffence returns the offence type with the highest occurrence
// count, or "None" for an empty list. Ties are broken by the order in which
// types first appear in the list.
func MostCommonOffence(offences []models.Offence) string {
	counts := make(map[string]int)
	var order []string
	for _, off := range offences {
		if counts[off.OffenceType] == 0 {
			order = append(order, off.OffenceType)
		}
		counts[off.OffenceType]++
	}

	best := "None"
	bestCount := 0
	for _, offenceType := range order {
		if counts[offenceType] > bestCount {
			best = offenceType
			bestCount = counts[offenceType]
		}
	}
	return best
}

// RepeatOffenders returns the vehicle numbers appearing in more than one
// record, in first-appearance order.
func RepeatOffenders(offences []models.Offence) []string {
	counts := make(map[string]int)
	var order []string
	for _, off := range offences {
		if counts[off.VehicleNumber] == 0 {
			order = append(order, off.VehicleNumber)
		}
		counts[off.VehicleNumber]++
	}

	repeats := []string{}
	for _, vehicle := range order {
		if counts[vehicle] > 1 {
			repeats = append(repeats, vehicle)
		}
	}
	return repeats
}

// Search returns the offences whose id, offender name, or vehicle number
// contains the term, matched case-insensitively. An empty term matches all.
func Search(offences []models.Offence, term string) []models.Offence {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		out := make([]models.Offence, len(offences))
		copy(out, offences)
		return out
	}

	out := []models.Offence{}
	for _, off := range offences {
		if strings.Contains(strings.ToLower(off.ID), term) ||
			strings.Contains(strings.ToLower(off.OffenderName), term) ||
			strings.Contains(strings.ToLower(off.VehicleNumber), term) {
			out = append(out, off)
		}
	}
	return out
}

// FilterByStatus returns the offences matching the given payment status.
// "all" (or empty) matches everything.
func FilterByStatus(offences []models.Offence, status string) []models.Offence {
	if status == "" || strings.EqualFold(status, "all") {
		out := make([]models.Offence, len(offences))
		copy(out, offences)
		return out
	}

	out := []models.Offence{}
	for _, off := range offences {
		if strings.EqualFold(string(off.PaymentStatus), status) {
			out = append(out, off)
		}
	}
	return out
}
