package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frscdev/offence-register/internal/models"
	"github.com/frscdev/offence-register/internal/stats"
)

type fixedSummary struct {
	summary stats.Summary
}

func (f fixedSummary) Snapshot() stats.Summary {
	return f.summary
}

func TestDashboardHandler_Admin(t *testing.T) {
	repo := new(MockOffenceRepository)
	source := fixedSummary{summary: stats.Summary{
		TotalOffences:     3,
		TotalFines:        45000,
		PaidAmount:        5000,
		PendingAmount:     40000,
		PendingCount:      2,
		MostCommonOffence: "Speeding",
		RepeatOffenders:   []string{"LAG-123-AB"},
	}}
	handler := NewDashboardHandler(repo, source)

	rec := httptest.NewRecorder()
	handler.Admin(rec, newRequest(http.MethodGet, "/api/dashboard/admin", nil, adminClaims(), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got stats.Summary
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, source.summary, got)
}

func TestDashboardHandler_User(t *testing.T) {
	repo := new(MockOffenceRepository)
	handler := NewDashboardHandler(repo, fixedSummary{})

	repo.On("FindByVehicle", "LAG-123-AB").Return([]models.Offence{
		{FineAmount: 15000, PaymentStatus: models.PaymentPending},
		{FineAmount: 25000, PaymentStatus: models.PaymentPaid},
	})

	rec := httptest.NewRecorder()
	handler.User(rec, newRequest(http.MethodGet, "/api/dashboard/user", nil, vehicleClaims("LAG-123-AB"), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got stats.VehicleSummary
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.TotalOffences)
	assert.Equal(t, 15000.0, got.PendingAmount)
	assert.Equal(t, 25000.0, got.PaidAmount)

	repo.AssertExpectations(t)
}
