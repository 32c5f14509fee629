// Package balance derives per-user and per-group balances from the ledger
// store and keeps them in the shared cache.
//
// Every query is cache-checked first; a miss computes from the store and
// populates the cache under the balance ttl (summaries use the summary
// ttl). Mutations must call Invalidate or InvalidateUser after they commit.
package balance

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/mmynk/splitledger/internal/cache"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Reader is the slice of the store the aggregator reads from.
type Reader interface {
	storage.BalanceReader
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroups(ctx context.Context, page models.Page) ([]*models.Group, error)
	ListUserGroups(ctx context.Context, userID string) ([]*models.Group, error)
	ExpenseStatistics(ctx context.Context, groupID string) (*models.ExpenseStats, error)
}

// Options holds the aggregator's ttl classes.
type Options struct {
	BalanceTTL time.Duration
	SummaryTTL time.Duration
}

// Aggregator answers balance queries through the cache.
type Aggregator struct {
	store      Reader
	cache      *cache.Cache
	balanceTTL time.Duration
	summaryTTL time.Duration
}

// New creates an Aggregator over store sharing c with the rest of the process.
func New(store Reader, c *cache.Cache, opts Options) *Aggregator {
	return &Aggregator{
		store:      store,
		cache:      c,
		balanceTTL: opts.BalanceTTL,
		summaryTTL: opts.SummaryTTL,
	}
}

// Cache keys.
func userGroupKey(userID, groupID string) string {
	return fmt.Sprintf("user_group_balance:%s_%s", userID, groupID)
}

func groupKey(groupID string) string {
	return "group_balances:" + groupID
}

func userKey(userID string) string {
	return "user_all_balances:" + userID
}

func summaryKey(userID string) string {
	if userID == "" {
		return "balance_summary:system"
	}
	return "balance_summary:" + userID
}

// BalanceOf returns what userID paid, owes and nets within groupID.
// Only IDs are set on the result; names are filled in by the list queries.
func (a *Aggregator) BalanceOf(ctx context.Context, userID, groupID string) (models.Balance, error) {
	return cache.Fetch(a.cache, userGroupKey(userID, groupID), a.balanceTTL, func() (models.Balance, error) {
		paid, err := a.store.SumPaid(ctx, userID, groupID)
		if err != nil {
			return models.Balance{}, err
		}
		owed, err := a.store.SumOwed(ctx, userID, groupID)
		if err != nil {
			return models.Balance{}, err
		}

		slog.Debug("Computed balance", "user_id", userID, "group_id", groupID, "paid", paid, "owed", owed)
		return models.Balance{
			UserID:  userID,
			GroupID: groupID,
			Paid:    paid,
			Owed:    owed,
			Balance: paid.Sub(owed),
		}, nil
	})
}

// BalancesInGroup returns every member's balance, most indebted first.
// Members with equal balances are ordered by name.
func (a *Aggregator) BalancesInGroup(ctx context.Context, groupID string) ([]models.Balance, error) {
	balances, err := cache.Fetch(a.cache, groupKey(groupID), a.balanceTTL, func() ([]models.Balance, error) {
		group, err := a.store.GetGroup(ctx, groupID)
		if err != nil {
			return nil, err
		}

		balances := make([]models.Balance, 0, len(group.Members))
		for _, m := range group.Members {
			b, err := a.BalanceOf(ctx, m.UserID, groupID)
			if err != nil {
				return nil, err
			}
			b.UserName = m.Name
			b.GroupName = group.Name
			balances = append(balances, b)
		}

		slices.SortStableFunc(balances, func(x, y models.Balance) int {
			if c := x.Balance.Cmp(y.Balance); c != 0 {
				return c
			}
			return cmp.Compare(x.UserName, y.UserName)
		})
		return balances, nil
	})
	return slices.Clone(balances), err
}

// BalancesOfUser returns userID's balance in each of their groups, ordered
// by group name.
func (a *Aggregator) BalancesOfUser(ctx context.Context, userID string) ([]models.Balance, error) {
	balances, err := cache.Fetch(a.cache, userKey(userID), a.balanceTTL, func() ([]models.Balance, error) {
		user, err := a.store.GetUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		groups, err := a.store.ListUserGroups(ctx, userID)
		if err != nil {
			return nil, err
		}

		balances := make([]models.Balance, 0, len(groups))
		for _, g := range groups {
			b, err := a.BalanceOf(ctx, userID, g.ID)
			if err != nil {
				return nil, err
			}
			b.UserName = user.Name
			b.GroupName = g.Name
			balances = append(balances, b)
		}

		slices.SortStableFunc(balances, func(x, y models.Balance) int {
			return cmp.Compare(x.GroupName, y.GroupName)
		})
		return balances, nil
	})
	return slices.Clone(balances), err
}

// Summary rolls balances up for userID, or for the whole system when
// userID is empty.
func (a *Aggregator) Summary(ctx context.Context, userID string) (models.BalanceSummary, error) {
	return cache.Fetch(a.cache, summaryKey(userID), a.summaryTTL, func() (models.BalanceSummary, error) {
		if userID != "" {
			balances, err := a.BalancesOfUser(ctx, userID)
			if err != nil {
				return models.BalanceSummary{}, err
			}
			return calculator.Summarize(balances), nil
		}
		return a.systemSummary(ctx)
	})
}

func (a *Aggregator) systemSummary(ctx context.Context) (models.BalanceSummary, error) {
	groups, err := a.store.ListGroups(ctx, models.Page{})
	if err != nil {
		return models.BalanceSummary{}, err
	}

	perGroup := make([][]models.Balance, 0, len(groups))
	for _, g := range groups {
		balances, err := a.BalancesInGroup(ctx, g.ID)
		if err != nil {
			return models.BalanceSummary{}, err
		}
		perGroup = append(perGroup, balances)
	}

	stats, err := a.store.ExpenseStatistics(ctx, "")
	if err != nil {
		return models.BalanceSummary{}, err
	}

	summary := calculator.SummarizeSystem(perGroup)
	summary.TotalExpenses = stats.Total
	return summary, nil
}

// SuggestSettlements plans the payments that would settle groupID.
// It works on a copy of the group's balances and is never cached.
func (a *Aggregator) SuggestSettlements(ctx context.Context, groupID string) ([]models.Settlement, error) {
	balances, err := a.BalancesInGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return calculator.SuggestSettlements(balances), nil
}

// Invalidate drops every cached entry a change to groupID's ledger can make
// stale: for each user their per-group, all-groups and summary entries, and
// then the group's aggregate and the system summary.
func (a *Aggregator) Invalidate(groupID string, userIDs ...string) {
	keys := make([]string, 0, 3*len(userIDs)+2)
	for _, u := range userIDs {
		keys = append(keys, userGroupKey(u, groupID), userKey(u), summaryKey(u))
	}
	keys = append(keys, groupKey(groupID), summaryKey(""))
	a.cache.Delete(keys...)
}

// InvalidateUser drops userID's cached entries along with the aggregates
// of the groups they belong to, which carry their name.
func (a *Aggregator) InvalidateUser(userID string, groupIDs ...string) {
	keys := make([]string, 0, 2*len(groupIDs)+3)
	keys = append(keys, userKey(userID), summaryKey(userID))
	for _, g := range groupIDs {
		keys = append(keys, userGroupKey(userID, g), groupKey(g))
	}
	keys = append(keys, summaryKey(""))
	a.cache.Delete(keys...)
}
