package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SplitType is how an expense is divided among members.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitPercentage SplitType = "percentage"
)

// Valid reports whether t is a known split type.
func (t SplitType) Valid() bool {
	return t == SplitEqual || t == SplitPercentage
}

// Expense is one payment made by a group member on behalf of the group.
// It exclusively owns its Splits.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	Description string

	// Amount is the total paid, always positive.
	Amount decimal.Decimal

	GroupID string

	// PaidBy is the user ID of the payer; PaidByName is denormalized for display.
	PaidBy     string
	PaidByName string

	SplitType SplitType

	// Splits sum to Amount within money.Tolerance.
	Splits []Split

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// SplitUserIDs returns the user IDs carried by the expense's splits.
func (e *Expense) SplitUserIDs() []string {
	ids := make([]string, len(e.Splits))
	for i, s := range e.Splits {
		ids[i] = s.UserID
	}
	return ids
}

// Split is the portion of an expense one user owes.
type Split struct {
	ID        string
	ExpenseID string
	UserID    string
	UserName  string
	Amount    decimal.Decimal

	// Percentage is set only for percentage splits.
	Percentage *decimal.Decimal
}

// ExpensePatch lists the mutable expense fields.
type ExpensePatch struct {
	Description *string
	Amount      *decimal.Decimal
}

// Empty reports whether the patch changes nothing.
func (p ExpensePatch) Empty() bool {
	return p.Description == nil && p.Amount == nil
}

// Apply copies the set fields onto e and reports whether the amount changed.
func (p ExpensePatch) Apply(e *Expense) (amountChanged bool) {
	if p.Description != nil {
		e.Description = strings.TrimSpace(*p.Description)
	}
	if p.Amount != nil && !p.Amount.Equal(e.Amount) {
		e.Amount = *p.Amount
		amountChanged = true
	}
	return amountChanged
}

// ExpenseStats summarizes expense amounts for a group or the whole ledger.
type ExpenseStats struct {
	Count   int64
	Total   decimal.Decimal
	Average decimal.Decimal
	Min     decimal.Decimal
	Max     decimal.Decimal
}
