package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage/sqldb"
)

func newTestStore(t *testing.T) *sqldb.Store {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "splitledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(context.Background(), filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateUser(t *testing.T, store *sqldb.Store, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return user
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSQLiteStoreUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "Alice", "alice@example.com")
	mustCreateUser(t, store, "Carol", "carol@example.com")
	mustCreateUser(t, store, "Bob", "bob@example.com")

	t.Run("CreateUser generates ID and timestamp", func(t *testing.T) {
		if alice.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if alice.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{Name: "Other", Email: "alice@example.com"})
		if err == nil {
			t.Fatal("Expected unique constraint error")
		}
	})

	t.Run("GetUser and GetUserByEmail", func(t *testing.T) {
		got, err := store.GetUser(ctx, alice.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.Name != "Alice" || got.Email != "alice@example.com" {
			t.Errorf("GetUser = %+v", got)
		}

		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail.ID != alice.ID {
			t.Errorf("GetUserByEmail ID = %s, want %s", byEmail.ID, alice.ID)
		}
	})

	t.Run("missing user is NotFound", func(t *testing.T) {
		_, err := store.GetUser(ctx, "nonexistent-id")
		if !errs.Is(err, errs.NotFound) {
			t.Errorf("Expected NotFound, got %v", err)
		}
		if err := store.DeleteUser(ctx, "nonexistent-id"); !errs.Is(err, errs.NotFound) {
			t.Errorf("Expected NotFound on delete, got %v", err)
		}
	})

	t.Run("ListUsers orders by name and paginates", func(t *testing.T) {
		users, err := store.ListUsers(ctx, "", models.Page{})
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		var names []string
		for _, u := range users {
			names = append(names, u.Name)
		}
		if len(names) != 3 || names[0] != "Alice" || names[1] != "Bob" || names[2] != "Carol" {
			t.Errorf("ListUsers names = %v", names)
		}

		page, err := store.ListUsers(ctx, "", models.Page{Offset: 1, Limit: 1})
		if err != nil {
			t.Fatalf("ListUsers page failed: %v", err)
		}
		if len(page) != 1 || page[0].Name != "Bob" {
			t.Errorf("ListUsers page = %v", page)
		}

		found, err := store.ListUsers(ctx, "CAR", models.Page{})
		if err != nil {
			t.Fatalf("ListUsers search failed: %v", err)
		}
		if len(found) != 1 || found[0].Name != "Carol" {
			t.Errorf("ListUsers search = %v", found)
		}
	})

	t.Run("GetUsersByIDs skips unknown IDs", func(t *testing.T) {
		users, err := store.GetUsersByIDs(ctx, []string{alice.ID, "ghost"})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(users) != 1 || users[alice.ID] == nil {
			t.Errorf("GetUsersByIDs = %v", users)
		}
	})

	t.Run("UpdateUser", func(t *testing.T) {
		alice.Name = "Alice Smith"
		if err := store.UpdateUser(ctx, alice); err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}
		got, _ := store.GetUser(ctx, alice.ID)
		if got.Name != "Alice Smith" {
			t.Errorf("Name = %s, want Alice Smith", got.Name)
		}
	})
}

func TestSQLiteStoreGroupsAndExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "Alice", "alice@example.com")
	bob := mustCreateUser(t, store, "Bob", "bob@example.com")
	carol := mustCreateUser(t, store, "Carol", "carol@example.com")

	trip := &models.Group{
		Name:    "Trip",
		Members: []models.Member{{UserID: carol.ID}, {UserID: alice.ID}, {UserID: bob.ID}},
	}
	if err := store.CreateGroup(ctx, trip); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	flat := &models.Group{
		Name:    "Apartment",
		Members: []models.Member{{UserID: alice.ID}, {UserID: bob.ID}},
	}
	if err := store.CreateGroup(ctx, flat); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("GetGroup returns members ordered by name", func(t *testing.T) {
		got, err := store.GetGroup(ctx, trip.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.Members) != 3 {
			t.Fatalf("Expected 3 members, got %d", len(got.Members))
		}
		if got.Members[0].Name != "Alice" || got.Members[2].Name != "Carol" {
			t.Errorf("Members = %+v", got.Members)
		}
	})

	t.Run("ListUserGroups orders by group name", func(t *testing.T) {
		groups, err := store.ListUserGroups(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListUserGroups failed: %v", err)
		}
		if len(groups) != 2 || groups[0].Name != "Apartment" || groups[1].Name != "Trip" {
			t.Errorf("ListUserGroups = %v", groups)
		}

		groups, err = store.ListUserGroups(ctx, carol.ID)
		if err != nil {
			t.Fatalf("ListUserGroups failed: %v", err)
		}
		if len(groups) != 1 {
			t.Errorf("Expected Carol in 1 group, got %d", len(groups))
		}
	})

	hotel := &models.Expense{
		Description: "Hotel",
		Amount:      dec("300"),
		GroupID:     trip.ID,
		PaidBy:      alice.ID,
		SplitType:   models.SplitEqual,
		CreatedAt:   1000,
		Splits: []models.Split{
			{UserID: alice.ID, Amount: dec("100")},
			{UserID: bob.ID, Amount: dec("100")},
			{UserID: carol.ID, Amount: dec("100")},
		},
	}
	pct50, pct25 := dec("50"), dec("25")
	taxi := &models.Expense{
		Description: "Taxi",
		Amount:      dec("100"),
		GroupID:     trip.ID,
		PaidBy:      bob.ID,
		SplitType:   models.SplitPercentage,
		CreatedAt:   2000,
		Splits: []models.Split{
			{UserID: alice.ID, Amount: dec("50"), Percentage: &pct50},
			{UserID: bob.ID, Amount: dec("25"), Percentage: &pct25},
			{UserID: carol.ID, Amount: dec("25"), Percentage: &pct25},
		},
	}

	t.Run("CreateExpense persists expense with splits", func(t *testing.T) {
		for _, e := range []*models.Expense{hotel, taxi} {
			if err := store.CreateExpense(ctx, e); err != nil {
				t.Fatalf("CreateExpense failed: %v", err)
			}
		}

		got, err := store.GetExpense(ctx, taxi.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.PaidByName != "Bob" {
			t.Errorf("PaidByName = %s, want Bob", got.PaidByName)
		}
		if !got.Amount.Equal(dec("100")) {
			t.Errorf("Amount = %s, want 100", got.Amount)
		}
		if got.SplitType != models.SplitPercentage {
			t.Errorf("SplitType = %s", got.SplitType)
		}
		if len(got.Splits) != 3 {
			t.Fatalf("Expected 3 splits, got %d", len(got.Splits))
		}
		first := got.Splits[0]
		if first.UserName != "Alice" || !first.Amount.Equal(dec("50")) {
			t.Errorf("first split = %+v", first)
		}
		if first.Percentage == nil || !first.Percentage.Equal(pct50) {
			t.Errorf("first split percentage = %v, want 50", first.Percentage)
		}

		hotelGot, err := store.GetExpense(ctx, hotel.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		for _, s := range hotelGot.Splits {
			if s.Percentage != nil {
				t.Errorf("equal split carries percentage %v", s.Percentage)
			}
		}
	})

	t.Run("sums by payer and splitter", func(t *testing.T) {
		tests := []struct {
			user     *models.User
			wantPaid string
			wantOwed string
		}{
			{alice, "300", "150"},
			{bob, "100", "125"},
			{carol, "0", "125"},
		}
		for _, tt := range tests {
			paid, err := store.SumPaid(ctx, tt.user.ID, trip.ID)
			if err != nil {
				t.Fatalf("SumPaid failed: %v", err)
			}
			owed, err := store.SumOwed(ctx, tt.user.ID, trip.ID)
			if err != nil {
				t.Fatalf("SumOwed failed: %v", err)
			}
			if !paid.Equal(dec(tt.wantPaid)) || !owed.Equal(dec(tt.wantOwed)) {
				t.Errorf("%s: paid=%s owed=%s, want %s/%s", tt.user.Name, paid, owed, tt.wantPaid, tt.wantOwed)
			}
		}

		paid, err := store.SumPaid(ctx, alice.ID, flat.ID)
		if err != nil {
			t.Fatalf("SumPaid failed: %v", err)
		}
		if !paid.IsZero() {
			t.Errorf("SumPaid in empty group = %s, want 0", paid)
		}
	})

	t.Run("ListGroupExpenses is newest first", func(t *testing.T) {
		expenses, err := store.ListGroupExpenses(ctx, trip.ID, models.Page{})
		if err != nil {
			t.Fatalf("ListGroupExpenses failed: %v", err)
		}
		if len(expenses) != 2 || expenses[0].ID != taxi.ID || expenses[1].ID != hotel.ID {
			t.Errorf("ListGroupExpenses order wrong: %v", expenses)
		}
		if len(expenses[1].Splits) != 3 {
			t.Errorf("Expected splits to be loaded, got %d", len(expenses[1].Splits))
		}

		page, err := store.ListGroupExpenses(ctx, trip.ID, models.Page{Limit: 1, Offset: 1})
		if err != nil {
			t.Fatalf("ListGroupExpenses page failed: %v", err)
		}
		if len(page) != 1 || page[0].ID != hotel.ID {
			t.Errorf("ListGroupExpenses page = %v", page)
		}
	})

	t.Run("ExpenseStatistics", func(t *testing.T) {
		stats, err := store.ExpenseStatistics(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ExpenseStatistics failed: %v", err)
		}
		if stats.Count != 2 || !stats.Total.Equal(dec("400")) || !stats.Average.Equal(dec("200")) ||
			!stats.Min.Equal(dec("100")) || !stats.Max.Equal(dec("300")) {
			t.Errorf("stats = %+v", stats)
		}

		empty, err := store.ExpenseStatistics(ctx, flat.ID)
		if err != nil {
			t.Fatalf("ExpenseStatistics failed: %v", err)
		}
		if empty.Count != 0 || !empty.Total.IsZero() || !empty.Average.IsZero() {
			t.Errorf("empty stats = %+v", empty)
		}
	})

	t.Run("failed CreateExpense leaves nothing behind", func(t *testing.T) {
		broken := &models.Expense{
			Description: "Broken",
			Amount:      dec("10"),
			GroupID:     flat.ID,
			PaidBy:      alice.ID,
			SplitType:   models.SplitEqual,
			Splits: []models.Split{
				{UserID: alice.ID, Amount: dec("5")},
				{UserID: alice.ID, Amount: dec("5")},
			},
		}
		if err := store.CreateExpense(ctx, broken); err == nil {
			t.Fatal("Expected duplicate split user to fail")
		}

		n, err := store.CountGroupExpenses(ctx, flat.ID)
		if err != nil {
			t.Fatalf("CountGroupExpenses failed: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected no expense rows after rollback, got %d", n)
		}
		owed, _ := store.SumOwed(ctx, alice.ID, flat.ID)
		if !owed.IsZero() {
			t.Errorf("Expected no split rows after rollback, owed = %s", owed)
		}
	})

	t.Run("UpdateExpense writes amount and split amounts", func(t *testing.T) {
		got, err := store.GetExpense(ctx, hotel.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		got.Description = "Hotel (2 nights)"
		got.Amount = dec("330")
		for i := range got.Splits {
			got.Splits[i].Amount = dec("110")
		}
		if err := store.UpdateExpense(ctx, got); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}

		updated, _ := store.GetExpense(ctx, hotel.ID)
		if updated.Description != "Hotel (2 nights)" || !updated.Amount.Equal(dec("330")) {
			t.Errorf("updated = %+v", updated)
		}
		for _, s := range updated.Splits {
			if !s.Amount.Equal(dec("110")) {
				t.Errorf("split %s amount = %s, want 110", s.UserName, s.Amount)
			}
		}

		if err := store.UpdateExpense(ctx, &models.Expense{ID: "ghost", Amount: dec("1")}); !errs.Is(err, errs.NotFound) {
			t.Errorf("Expected NotFound, got %v", err)
		}
	})

	t.Run("user with expense history", func(t *testing.T) {
		n, err := store.CountUserExpenses(ctx, carol.ID)
		if err != nil {
			t.Fatalf("CountUserExpenses failed: %v", err)
		}
		if n != 2 {
			t.Errorf("CountUserExpenses(carol) = %d, want 2", n)
		}
		if err := store.DeleteUser(ctx, carol.ID); err == nil {
			t.Error("Expected foreign key failure deleting a user with splits")
		}
	})

	t.Run("DeleteExpense removes splits", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, hotel.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, hotel.ID); !errs.Is(err, errs.NotFound) {
			t.Errorf("Expected NotFound after delete, got %v", err)
		}
		owed, _ := store.SumOwed(ctx, carol.ID, trip.ID)
		if !owed.Equal(dec("25")) {
			t.Errorf("carol owed = %s, want 25", owed)
		}
		if err := store.DeleteExpense(ctx, hotel.ID); !errs.Is(err, errs.NotFound) {
			t.Errorf("Expected NotFound deleting twice, got %v", err)
		}
	})

	t.Run("UpdateGroup replaces membership", func(t *testing.T) {
		flat.Name = "Flat"
		flat.Members = []models.Member{{UserID: bob.ID}, {UserID: carol.ID}}
		if err := store.UpdateGroup(ctx, flat); err != nil {
			t.Fatalf("UpdateGroup failed: %v", err)
		}
		got, _ := store.GetGroup(ctx, flat.ID)
		if got.Name != "Flat" || len(got.Members) != 2 || got.HasMember(alice.ID) {
			t.Errorf("updated group = %+v", got)
		}
	})

	t.Run("DeleteGroup", func(t *testing.T) {
		if err := store.DeleteGroup(ctx, flat.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		if _, err := store.GetGroup(ctx, flat.ID); !errs.Is(err, errs.NotFound) {
			t.Errorf("Expected NotFound, got %v", err)
		}
		groups, _ := store.ListGroups(ctx, models.Page{})
		if len(groups) != 1 || groups[0].ID != trip.ID {
			t.Errorf("ListGroups = %v", groups)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		if err := store.Ping(ctx); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})
}
