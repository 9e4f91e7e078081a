package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash           PaymentMethod = "Cash"
	PaymentVenmo          PaymentMethod = "Venmo"
	PaymentZelle          PaymentMethod = "Zelle"
	PaymentPayPal         PaymentMethod = "PayPal"
	PaymentAshrafPersonal PaymentMethod = "Ashraf Personal"
	PaymentSamyPersonal   PaymentMethod = "Samy Personal"
)

// PaymentMethods returns the closed set of accepted methods in the fixed
// order used by summaries and exports.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		PaymentCash,
		PaymentVenmo,
		PaymentZelle,
		PaymentPayPal,
		PaymentAshrafPersonal,
		PaymentSamyPersonal,
	}
}

func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods() {
		if m == known {
			return true
		}
	}
	return false
}

// SaleRecord is one completed sale. Immutable once appended to the ledger;
// it is removed only by undo of the most recent sale.
type SaleRecord struct {
	ID              string          `json:"id"`
	Timestamp       time.Time       `json:"timestamp"`
	ItemID          string          `json:"itemId"`
	Design          string          `json:"design"`
	Size            string          `json:"size"`
	Category        string          `json:"category"`
	UnitPriceAtSale decimal.Decimal `json:"unitPrice"`
	Discount        DiscountSpec    `json:"discount"`
	FinalPrice      decimal.Decimal `json:"finalPrice"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
}

type EventInfo struct {
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	StartTime time.Time `json:"startTime"`
}

// Phase tracks where the operator is in the event lifecycle. It replaces
// page navigation in the reference UI.
type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhaseSelling Phase = "selling"
	PhaseSummary Phase = "summary"
)
