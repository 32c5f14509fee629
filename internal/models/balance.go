package models

import "github.com/shopspring/decimal"

// Balance is a user's standing within one group.
// Positive = owed money, Negative = owes money.
type Balance struct {
	UserID    string
	UserName  string
	GroupID   string
	GroupName string

	// Paid is the total of expenses this user paid in the group.
	Paid decimal.Decimal

	// Owed is the total of this user's splits in the group.
	Owed decimal.Decimal

	// Balance is Paid - Owed.
	Balance decimal.Decimal
}

// BalanceSummary rolls balances up for one user, or for the whole system.
type BalanceSummary struct {
	TotalBalance     decimal.Decimal
	GroupsWithDebt   int
	GroupsWithCredit int
	LargestDebt      decimal.Decimal
	LargestCredit    decimal.Decimal

	// TotalGroups and TotalExpenses are filled in for the system summary only.
	TotalGroups   int
	TotalExpenses decimal.Decimal
}

// Settlement is a suggested payment that moves balances toward zero.
// It is recomputed on demand and never persisted.
type Settlement struct {
	FromUserID   string
	FromUserName string
	ToUserID     string
	ToUserName   string
	Amount       decimal.Decimal
}
