package assistant

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/cache"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// recentExpenses is how many of each group's newest expenses a snapshot
// carries.
const recentExpenses = 10

const snapshotKey = "assistant_context"

// Source is the read side of the ledger a snapshot is built from.
type Source interface {
	ListUsers(ctx context.Context, search string, page models.Page) ([]*models.User, error)
	ListGroups(ctx context.Context, page models.Page) ([]*models.Group, error)
	ListGroupExpenses(ctx context.Context, groupID string, page models.Page) ([]*models.Expense, error)
	ExpenseStatistics(ctx context.Context, groupID string) (*models.ExpenseStats, error)
}

// BalanceSource supplies member balances per group.
type BalanceSource interface {
	BalancesInGroup(ctx context.Context, groupID string) ([]models.Balance, error)
}

// Snapshot is a read-only view of the whole ledger handed to an Answerer.
type Snapshot struct {
	Users         []UserInfo      `json:"users"`
	Groups        []GroupInfo     `json:"groups"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
}

type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type GroupInfo struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Members        []string        `json:"members"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	RecentExpenses []ExpenseInfo   `json:"recent_expenses"`
	Balances       []BalanceInfo   `json:"balances"`
}

type ExpenseInfo struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paid_by"`
	SplitType   string          `json:"split_type"`
	CreatedAt   int64           `json:"created_at"`
}

// BalanceInfo is positive when the user is owed money.
type BalanceInfo struct {
	UserID   string          `json:"user_id"`
	UserName string          `json:"user_name"`
	Balance  decimal.Decimal `json:"balance"`
}

// group returns the group with id, or nil.
func (s *Snapshot) group(id string) *GroupInfo {
	for i := range s.Groups {
		if s.Groups[i].ID == id {
			return &s.Groups[i]
		}
	}
	return nil
}

// user returns the user with id, or nil.
func (s *Snapshot) user(id string) *UserInfo {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}

// SnapshotBuilder assembles snapshots and caches them under the context ttl.
type SnapshotBuilder struct {
	source   Source
	balances BalanceSource
	cache    *cache.Cache
	ttl      time.Duration
}

func NewSnapshotBuilder(source Source, balances BalanceSource, c *cache.Cache, ttl time.Duration) *SnapshotBuilder {
	return &SnapshotBuilder{
		source:   source,
		balances: balances,
		cache:    c,
		ttl:      ttl,
	}
}

// Build returns the cached snapshot or assembles a new one. Ledger
// mutations do not invalidate it; it is at most one ttl old.
func (b *SnapshotBuilder) Build(ctx context.Context) (*Snapshot, error) {
	return cache.Fetch(b.cache, snapshotKey, b.ttl, func() (*Snapshot, error) {
		return b.build(ctx)
	})
}

func (b *SnapshotBuilder) build(ctx context.Context) (*Snapshot, error) {
	users, err := b.source.ListUsers(ctx, "", models.Page{})
	if err != nil {
		return nil, err
	}
	groups, err := b.source.ListGroups(ctx, models.Page{})
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Users:  make([]UserInfo, 0, len(users)),
		Groups: make([]GroupInfo, 0, len(groups)),
	}
	for _, u := range users {
		snap.Users = append(snap.Users, UserInfo{ID: u.ID, Name: u.Name, Email: u.Email})
	}

	totals := make([]decimal.Decimal, 0, len(groups))
	for _, g := range groups {
		info, err := b.groupInfo(ctx, g)
		if err != nil {
			return nil, err
		}
		snap.Groups = append(snap.Groups, info)
		totals = append(totals, info.TotalExpenses)
	}
	snap.TotalExpenses = money.Sum(totals...)
	return snap, nil
}

func (b *SnapshotBuilder) groupInfo(ctx context.Context, g *models.Group) (GroupInfo, error) {
	info := GroupInfo{
		ID:      g.ID,
		Name:    g.Name,
		Members: make([]string, 0, len(g.Members)),
	}
	for _, m := range g.Members {
		info.Members = append(info.Members, m.Name)
	}

	stats, err := b.source.ExpenseStatistics(ctx, g.ID)
	if err != nil {
		return GroupInfo{}, err
	}
	info.TotalExpenses = stats.Total

	expenses, err := b.source.ListGroupExpenses(ctx, g.ID, models.Page{Limit: recentExpenses})
	if err != nil {
		return GroupInfo{}, err
	}
	for _, e := range expenses {
		info.RecentExpenses = append(info.RecentExpenses, ExpenseInfo{
			Description: e.Description,
			Amount:      e.Amount,
			PaidBy:      e.PaidByName,
			SplitType:   string(e.SplitType),
			CreatedAt:   e.CreatedAt,
		})
	}

	balances, err := b.balances.BalancesInGroup(ctx, g.ID)
	if err != nil {
		return GroupInfo{}, err
	}
	for _, bal := range balances {
		info.Balances = append(info.Balances, BalanceInfo{
			UserID:   bal.UserID,
			UserName: bal.UserName,
			Balance:  bal.Balance,
		})
	}
	return info, nil
}
