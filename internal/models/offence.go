package models

import "time"

// PaymentStatus represents the payment state of an offence.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

// OffenceTypes is the fixed set of recordable offence types.
var OffenceTypes = []string{
	"Speeding",
	"Seatbelt Violation",
	"Dangerous Driving",
	"Overloading",
	"Driving Without License",
	"Phone Use While Driving",
	"Traffic Light Violation",
	"Wrong Way Driving",
	"Drunk Driving",
	"Expired Documents",
}

// Offence represents a recorded traffic violation with its fine.
// JSON field names match the persisted record format.
type Offence struct {
	ID            string        `json:"id"`
	OffenderName  string        `json:"offenderName"`
	VehicleNumber string        `json:"vehicleNumber"`
	OffenceType   string        `json:"offenceType"`
	Location      string        `json:"location"`
	DateTime      string        `json:"dateTime"` // local timestamp, e.g. 2025-01-10T14:30:00
	FineAmount    float64       `json:"fineAmount"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	TransactionID string        `json:"transactionId,omitempty"`
	GatewayRef    string        `json:"gatewayRef,omitempty"`
	PaymentDate   *time.Time    `json:"paymentDate,omitempty"`
}

// CreateOffenceRequest carries the fields for recording a new offence.
type CreateOffenceRequest struct {
	OffenderName  string  `json:"offenderName"`
	VehicleNumber string  `json:"vehicleNumber"`
	OffenceType   string  `json:"offenceType"`
	Location      string  `json:"location"`
	DateTime      string  `json:"dateTime"`
	FineAmount    float64 `json:"fineAmount"`
}

// UpdateOffenceRequest carries a partial update; nil fields are left unchanged.
type UpdateOffenceRequest struct {
	OffenderName  *string  `json:"offenderName,omitempty"`
	VehicleNumber *string  `json:"vehicleNumber,omitempty"`
	OffenceType   *string  `json:"offenceType,omitempty"`
	Location      *string  `json:"location,omitempty"`
	DateTime      *string  `json:"dateTime,omitempty"`
	FineAmount    *float64 `json:"fineAmount,omitempty"`
}

// IsValidOffenceType checks if a type belongs to the fixed offence set.
func IsValidOffenceType(offenceType string) bool {
	for _, t := range OffenceTypes {
		if t == offenceType {
			return true
		}
	}
	return false
}

// IsValidPaymentStatus checks if a status is one of the known payment states.
func IsValidPaymentStatus(status PaymentStatus) bool {
	switch status {
	case PaymentPending, PaymentPaid:
		return true
	default:
		return false
	}
}
