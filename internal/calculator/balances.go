package calculator

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// party is a working copy of one member's position during settlement.
type party struct {
	userID string
	name   string
	amount decimal.Decimal // remaining magnitude, always >= 0
}

// SuggestSettlements proposes payments that bring every balance within
// money.Tolerance of zero.
//
// Algorithm:
//   - Debtors (balance < 0) are sorted most negative first, creditors
//     (balance > 0) most positive first
//   - The current largest debtor pays the current largest creditor
//     min(|debt|, credit)
//   - Payments of money.Tolerance or less are dust and are not suggested
//   - A party is left behind once its remaining balance is dust
//
// The greedy matching is deterministic but not guaranteed to be globally
// minimal. balances is never modified.
func SuggestSettlements(balances []models.Balance) []models.Settlement {
	var debtors, creditors []party
	for _, b := range balances {
		switch b.Balance.Sign() {
		case -1:
			debtors = append(debtors, party{userID: b.UserID, name: b.UserName, amount: b.Balance.Neg()})
		case 1:
			creditors = append(creditors, party{userID: b.UserID, name: b.UserName, amount: b.Balance})
		}
	}

	byAmountDesc := func(a, b party) int {
		if c := b.amount.Cmp(a.amount); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	}
	slices.SortStableFunc(debtors, byAmountDesc)
	slices.SortStableFunc(creditors, byAmountDesc)

	var settlements []models.Settlement
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := decimal.Min(debtor.amount, creditor.amount)
		if amount.GreaterThan(money.Tolerance) {
			settlements = append(settlements, models.Settlement{
				FromUserID:   debtor.userID,
				FromUserName: debtor.name,
				ToUserID:     creditor.userID,
				ToUserName:   creditor.name,
				Amount:       money.Round(amount),
			})
		}

		debtor.amount = debtor.amount.Sub(amount)
		creditor.amount = creditor.amount.Sub(amount)

		if money.IsDust(debtor.amount) {
			i++
		}
		if money.IsDust(creditor.amount) {
			j++
		}
	}

	return settlements
}

// Summarize rolls a user's per-group balances up into a summary.
func Summarize(balances []models.Balance) models.BalanceSummary {
	summary := models.BalanceSummary{
		TotalBalance:  decimal.Zero,
		LargestDebt:   decimal.Zero,
		LargestCredit: decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for _, b := range balances {
		summary.TotalBalance = summary.TotalBalance.Add(b.Balance)
		switch b.Balance.Sign() {
		case -1:
			summary.GroupsWithDebt++
			summary.LargestDebt = decimal.Min(summary.LargestDebt, b.Balance)
		case 1:
			summary.GroupsWithCredit++
			summary.LargestCredit = decimal.Max(summary.LargestCredit, b.Balance)
		}
	}
	return summary
}

// SummarizeSystem rolls every group's balances up into the system-wide
// summary. The total balance is zero by construction; the debt and credit
// counters count groups holding at least one debtor or creditor, and the
// largest debt and credit are the extreme member balances in any group.
func SummarizeSystem(groups [][]models.Balance) models.BalanceSummary {
	summary := models.BalanceSummary{
		TotalBalance:  decimal.Zero,
		LargestDebt:   decimal.Zero,
		LargestCredit: decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalGroups:   len(groups),
	}

	for _, balances := range groups {
		hasDebt, hasCredit := false, false
		for _, b := range balances {
			switch b.Balance.Sign() {
			case -1:
				hasDebt = true
				summary.LargestDebt = decimal.Min(summary.LargestDebt, b.Balance)
			case 1:
				hasCredit = true
				summary.LargestCredit = decimal.Max(summary.LargestCredit, b.Balance)
			}
		}
		if hasDebt {
			summary.GroupsWithDebt++
		}
		if hasCredit {
			summary.GroupsWithCredit++
		}
	}
	return summary
}
