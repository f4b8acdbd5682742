// Package payment integrates with the card operator that authorizes order
// payments. Only a simulated operator exists; it evaluates local rules and
// never calls out.
package payment

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"rpgshop/internal/models"
)

// Decision is the operator's verdict for an authorization attempt.
type Decision struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason"`
}

// Authorizer decides whether an order's card payments are accepted.
// A Decision is always returned; operator unavailability is modelled as a
// declined decision, not an error.
type Authorizer interface {
	Authorize(customerID string, orderTotal decimal.Decimal, payments []models.OrderPayment) Decision
}

// SimulatedCardOperator approves or declines payments based on
// configured limits and card-number deny rules.
type SimulatedCardOperator struct {
	enabled          bool
	maxAmountPerCard decimal.Decimal
	rejectedSuffixes []string
}

// NewSimulatedCardOperator creates a SimulatedCardOperator. A non-positive
// maxAmountPerCard falls back to 5000.00.
func NewSimulatedCardOperator(enabled bool, maxAmountPerCard decimal.Decimal, rejectedSuffixes []string) *SimulatedCardOperator {
	if maxAmountPerCard.LessThanOrEqual(decimal.Zero) {
		maxAmountPerCard = decimal.RequireFromString("5000.00")
	}
	return &SimulatedCardOperator{
		enabled:          enabled,
		maxAmountPerCard: maxAmountPerCard,
		rejectedSuffixes: rejectedSuffixes,
	}
}

// Authorize evaluates every card payment on the order. Coupon-only
// payments are ignored.
func (o *SimulatedCardOperator) Authorize(customerID string, orderTotal decimal.Decimal, payments []models.OrderPayment) Decision {
	if !o.enabled {
		return Decision{Approved: true, Reason: "operator validation disabled"}
	}

	if len(payments) == 0 {
		return Decision{Approved: false, Reason: "no payments submitted to the operator"}
	}
	if customerID == "" {
		return Decision{Approved: false, Reason: "invalid customer for operator authorization"}
	}
	if orderTotal.LessThanOrEqual(decimal.Zero) {
		return Decision{Approved: false, Reason: "invalid order total for operator authorization"}
	}

	for _, p := range payments {
		if p.CreditCard == nil {
			continue
		}

		cardNumber := digitsOnly(p.CreditCard.Number)
		if len(cardNumber) < 13 || len(cardNumber) > 19 {
			return Decision{Approved: false, Reason: "operator rejected a card with an invalid number"}
		}

		if p.Amount.GreaterThan(o.maxAmountPerCard) {
			return Decision{
				Approved: false,
				Reason:   fmt.Sprintf("operator rejected an amount above the per-card limit (%s)", o.maxAmountPerCard.StringFixed(2)),
			}
		}

		if o.isBlockedCard(cardNumber) {
			return Decision{Approved: false, Reason: "operator rejected the selected card"}
		}
	}

	return Decision{Approved: true, Reason: "payment approved by the operator"}
}

func (o *SimulatedCardOperator) isBlockedCard(cardNumber string) bool {
	for _, suffix := range o.rejectedSuffixes {
		normalized := digitsOnly(suffix)
		if normalized == "" {
			continue
		}
		if strings.HasSuffix(cardNumber, normalized) {
			return true
		}
	}
	return false
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
