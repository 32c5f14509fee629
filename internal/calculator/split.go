package calculator

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// PercentageEntry is one caller-supplied share of a percentage split.
type PercentageEntry struct {
	UserID     string
	Percentage decimal.Decimal
}

// Share is the calculated portion of an expense for one user.
type Share struct {
	UserID string
	Amount decimal.Decimal

	// Percentage is set only for percentage splits.
	Percentage *decimal.Decimal
}

// ComputeSplits turns an expense amount and split policy into per-user shares.
//
// Equal splits give every member amount/len(members); entries must be empty.
// Percentage splits give each entry amount*percentage/100; every entry must
// name a distinct member, each percentage must be in (0, 100] and together
// they must sum to 100 within money.Tolerance.
//
// Shares are in whole cents; see EqualShares for equal splits. Percentage
// shares are rounded half away from zero and then nudged by at most one cent
// each, largest remainder first, so they add up to the rounded total of the
// unrounded shares.
func ComputeSplits(amount decimal.Decimal, splitType models.SplitType, entries []PercentageEntry, members []string) ([]Share, error) {
	if !amount.IsPositive() {
		return nil, errs.ErrNonPositiveAmount
	}

	switch splitType {
	case models.SplitEqual:
		if len(entries) > 0 {
			return nil, errs.ErrSplitsNotAllowed
		}
		return equalSplit(amount, members)
	case models.SplitPercentage:
		return percentageSplit(amount, entries, members)
	default:
		return nil, errs.ErrUnknownSplitType
	}
}

func equalSplit(amount decimal.Decimal, members []string) ([]Share, error) {
	if len(members) == 0 {
		return nil, errs.ErrNoMembers
	}

	amounts := EqualShares(amount, len(members))
	shares := make([]Share, len(members))
	for i, userID := range members {
		shares[i] = Share{UserID: userID, Amount: amounts[i]}
	}
	return shares, nil
}

func percentageSplit(amount decimal.Decimal, entries []PercentageEntry, members []string) ([]Share, error) {
	if len(entries) == 0 {
		return nil, errs.ErrSplitsRequired
	}

	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}

	seen := make(map[string]bool, len(entries))
	totalPercentage := decimal.Zero
	for _, e := range entries {
		if !memberSet[e.UserID] {
			return nil, errs.ErrUserNotInGroup
		}
		if seen[e.UserID] {
			return nil, errs.ErrDuplicateSplitUser
		}
		seen[e.UserID] = true

		if !e.Percentage.IsPositive() || e.Percentage.GreaterThan(money.Hundred) {
			return nil, errs.ErrPercentageRange
		}
		totalPercentage = totalPercentage.Add(e.Percentage)
	}

	if !money.NearlyEqual(totalPercentage, money.Hundred) {
		return nil, errs.ErrPercentageSum
	}

	total := money.Round(amount)
	exact := make([]decimal.Decimal, len(entries))
	shares := make([]Share, len(entries))
	for i, e := range entries {
		pct := e.Percentage
		exact[i] = total.Mul(pct).Div(money.Hundred)
		shares[i] = Share{
			UserID:     e.UserID,
			Amount:     money.Round(exact[i]),
			Percentage: &pct,
		}
	}
	distributeResidual(exact, shares)
	return shares, nil
}

// EqualShares divides amount into n cent-rounded parts that add up to the
// rounded amount. Every part is amount/n truncated to cents; the cents left
// over go one each to the trailing parts, so no two parts differ by more
// than one cent.
func EqualShares(amount decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}

	count := decimal.NewFromInt(int64(n))
	total := money.Round(amount)
	base := total.Div(count).Truncate(money.Places)
	leftover := total.Sub(base.Mul(count)).Shift(money.Places).IntPart()

	parts := make([]decimal.Decimal, n)
	for i := range parts {
		parts[i] = base
		if int64(n-i) <= leftover {
			parts[i] = base.Add(money.Tolerance)
		}
	}
	return parts
}

// distributeResidual moves shares one cent at a time until they add up to
// the rounded sum of exact. Shares that were rounded down the most gain a
// cent first; shares that were rounded up the most lose one first. Each
// share stays within one cent of its rounded exact amount.
func distributeResidual(exact []decimal.Decimal, shares []Share) {
	target, sum := decimal.Zero, decimal.Zero
	for i := range shares {
		target = target.Add(exact[i])
		sum = sum.Add(shares[i].Amount)
	}
	residual := money.Round(target).Sub(sum).Shift(money.Places).IntPart()
	if residual == 0 {
		return
	}

	step := money.Tolerance
	if residual < 0 {
		step, residual = step.Neg(), -residual
	}

	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	// Remainder is exact minus rounded; gaining a cent favors the largest.
	slices.SortStableFunc(order, func(a, b int) int {
		ra := exact[a].Sub(shares[a].Amount)
		rb := exact[b].Sub(shares[b].Amount)
		if step.IsNegative() {
			return ra.Cmp(rb)
		}
		return rb.Cmp(ra)
	})

	for _, i := range order[:min(int(residual), len(order))] {
		shares[i].Amount = shares[i].Amount.Add(step)
	}
}
