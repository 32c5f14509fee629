package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

func bal(userID, balance string) models.Balance {
	return models.Balance{UserID: userID, UserName: userID, Balance: d(balance)}
}

// applySettlements returns the balances left after every transfer is paid.
func applySettlements(balances []models.Balance, settlements []models.Settlement) map[string]decimal.Decimal {
	remaining := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		remaining[b.UserID] = b.Balance
	}
	for _, s := range settlements {
		remaining[s.FromUserID] = remaining[s.FromUserID].Add(s.Amount)
		remaining[s.ToUserID] = remaining[s.ToUserID].Sub(s.Amount)
	}
	return remaining
}

func TestSuggestSettlements(t *testing.T) {
	tests := []struct {
		name     string
		balances []models.Balance
		want     []models.Settlement
	}{
		{
			name:     "trip scenario",
			balances: []models.Balance{bal("carol", "-125"), bal("bob", "-25"), bal("alice", "150")},
			want: []models.Settlement{
				{FromUserID: "carol", ToUserID: "alice", Amount: d("125")},
				{FromUserID: "bob", ToUserID: "alice", Amount: d("25")},
			},
		},
		{
			name:     "single debtor across creditors in descending credit order",
			balances: []models.Balance{bal("dave", "-90"), bal("erin", "30"), bal("frank", "60")},
			want: []models.Settlement{
				{FromUserID: "dave", ToUserID: "frank", Amount: d("60")},
				{FromUserID: "dave", ToUserID: "erin", Amount: d("30")},
			},
		},
		{
			name:     "multiple debtors one creditor",
			balances: []models.Balance{bal("a", "-10"), bal("b", "-40"), bal("c", "50")},
			want: []models.Settlement{
				{FromUserID: "b", ToUserID: "c", Amount: d("40")},
				{FromUserID: "a", ToUserID: "c", Amount: d("10")},
			},
		},
		{
			name:     "already settled",
			balances: []models.Balance{bal("a", "0"), bal("b", "0")},
			want:     nil,
		},
		{
			name:     "dust is not suggested",
			balances: []models.Balance{bal("a", "-0.01"), bal("b", "0.01")},
			want:     nil,
		},
		{
			name:     "no creditors",
			balances: []models.Balance{bal("a", "-5")},
			want:     nil,
		},
		{
			name:     "empty",
			balances: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestSettlements(tt.balances)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d settlements, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].FromUserID != tt.want[i].FromUserID || got[i].ToUserID != tt.want[i].ToUserID {
					t.Errorf("settlement %d = %s->%s, want %s->%s", i,
						got[i].FromUserID, got[i].ToUserID, tt.want[i].FromUserID, tt.want[i].ToUserID)
				}
				if !got[i].Amount.Equal(tt.want[i].Amount) {
					t.Errorf("settlement %d amount = %s, want %s", i, got[i].Amount, tt.want[i].Amount)
				}
			}
		})
	}
}

func TestSuggestSettlementsZeroesBalances(t *testing.T) {
	cases := [][]models.Balance{
		{bal("a", "-33.33"), bal("b", "-33.34"), bal("c", "66.67")},
		{bal("a", "-10.01"), bal("b", "-20.02"), bal("c", "15.03"), bal("d", "15.00")},
		{bal("a", "-1"), bal("b", "-2"), bal("c", "-3"), bal("d", "1.5"), bal("e", "4.5")},
		{bal("a", "-0.02"), bal("b", "0.01"), bal("c", "0.01")},
	}

	for _, balances := range cases {
		settlements := SuggestSettlements(balances)
		for _, s := range settlements {
			if s.Amount.LessThanOrEqual(money.Tolerance) {
				t.Errorf("dust settlement suggested: %+v", s)
			}
		}
		for user, remaining := range applySettlements(balances, settlements) {
			if !money.IsDust(remaining) {
				t.Errorf("%s left with %s after settlements %+v", user, remaining, settlements)
			}
		}
	}
}

func TestSuggestSettlementsDoesNotMutateInput(t *testing.T) {
	balances := []models.Balance{bal("a", "-10"), bal("b", "10")}
	SuggestSettlements(balances)
	if !balances[0].Balance.Equal(d("-10")) || !balances[1].Balance.Equal(d("10")) {
		t.Errorf("input balances were modified: %+v", balances)
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize([]models.Balance{bal("g1", "-20"), bal("g2", "35.5"), bal("g3", "-5"), bal("g4", "0")})

	if !summary.TotalBalance.Equal(d("10.5")) {
		t.Errorf("TotalBalance = %s, want 10.5", summary.TotalBalance)
	}
	if summary.GroupsWithDebt != 2 || summary.GroupsWithCredit != 1 {
		t.Errorf("debt/credit groups = %d/%d, want 2/1", summary.GroupsWithDebt, summary.GroupsWithCredit)
	}
	if !summary.LargestDebt.Equal(d("-20")) {
		t.Errorf("LargestDebt = %s, want -20", summary.LargestDebt)
	}
	if !summary.LargestCredit.Equal(d("35.5")) {
		t.Errorf("LargestCredit = %s, want 35.5", summary.LargestCredit)
	}
}

func TestSummarizeSystem(t *testing.T) {
	groups := [][]models.Balance{
		{bal("a", "-100"), bal("b", "100")},
		{bal("c", "0"), bal("d", "0")},
		{bal("e", "-5"), bal("f", "-7"), bal("g", "12")},
	}
	summary := SummarizeSystem(groups)

	if !summary.TotalBalance.IsZero() {
		t.Errorf("TotalBalance = %s, want 0", summary.TotalBalance)
	}
	if summary.TotalGroups != 3 {
		t.Errorf("TotalGroups = %d, want 3", summary.TotalGroups)
	}
	if summary.GroupsWithDebt != 2 || summary.GroupsWithCredit != 2 {
		t.Errorf("debt/credit groups = %d/%d, want 2/2", summary.GroupsWithDebt, summary.GroupsWithCredit)
	}
	if !summary.LargestDebt.Equal(d("-100")) || !summary.LargestCredit.Equal(d("100")) {
		t.Errorf("largest debt/credit = %s/%s, want -100/100", summary.LargestDebt, summary.LargestCredit)
	}
}
