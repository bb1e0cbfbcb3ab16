// Package payment simulates an external card payment gateway. Input is
// validated for shape only; any card passing the checks is charged
// successfully after an artificial delay. No real processing occurs.
package payment

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/frscdev/offence-register/internal/models"
)

// DefaultDelay emulates gateway network latency.
const DefaultDelay = 2500 * time.Millisecond

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	expiryPattern     = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3}$`)
)

// ValidationError reports a card input violation with its user-facing
// message. Validation short-circuits on the first failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Gateway charges a card and produces a receipt.
type Gateway interface {
	Charge(ctx context.Context, card models.Card) (*models.Receipt, error)
}

// ValidateCard checks the shape of the card input. The expiry check is a
// format match only; out-of-range months such as 13/25 are accepted.
func ValidateCard(card models.Card) error {
	if strings.TrimSpace(card.CardholderName) == "" {
		return &ValidationError{Field: "cardholderName", Message: "Please enter cardholder name"}
	}
	if !cardNumberPattern.MatchString(strings.ReplaceAll(card.CardNumber, " ", "")) {
		return &ValidationError{Field: "cardNumber", Message: "Card number must be 16 digits"}
	}
	if !expiryPattern.MatchString(card.Expiry) {
		return &ValidationError{Field: "expiry", Message: "Expiry date must be in MM/YY format"}
	}
	if !cvvPattern.MatchString(card.CVV) {
		return &ValidationError{Field: "cvv", Message: "CVV must be 3 digits"}
	}
	return nil
}

// SimulatedGateway validates the card shape and, after a fixed delay,
// produces a generated transaction identifier and gateway reference.
type SimulatedGateway struct {
	// Delay is the artificial processing latency. Tests may zero it.
	Delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedGateway creates a gateway with the default delay.
func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{
		Delay: DefaultDelay,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Charge validates the card, waits out the simulated latency, and returns a
// receipt. The wait respects context cancellation, but callers initiating a
// payment are expected to disable re-submission rather than abort.
func (g *SimulatedGateway) Charge(ctx context.Context, card models.Card) (*models.Receipt, error) {
	if err := ValidateCard(card); err != nil {
		return nil, err
	}

	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	g.mu.Lock()
	transactionID := fmt.Sprintf("TXN-%06d", 100000+g.rng.Intn(900000))
	ref := make([]byte, 6)
	for i := range ref {
		ref[i] = base36Alphabet[g.rng.Intn(len(base36Alphabet))]
	}
	g.mu.Unlock()

	return &models.Receipt{
		TransactionID: transactionID,
		GatewayRef:    "REF-" + string(ref),
		PaymentDate:   time.Now(),
	}, nil
}

// StaticGateway is a deterministic test double: it validates the card the
// same way but returns a fixed receipt with no delay.
type StaticGateway struct {
	Receipt models.Receipt
}

// Charge validates the card and returns the configured receipt.
func (g *StaticGateway) Charge(ctx context.Context, card models.Card) (*models.Receipt, error) {
	if err := ValidateCard(card); err != nil {
		return nil, err
	}
	receipt := g.Receipt
	if receipt.PaymentDate.IsZero() {
		receipt.PaymentDate = time.Now()
	}
	return &receipt, nil
}
