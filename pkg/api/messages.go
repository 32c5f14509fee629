package api

// User is a registered person.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"created_at"`
}

// Member is a group member.
type Member struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// Group is a set of users sharing expenses.
type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []Member `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

// Split is one member's portion of an expense.
type Split struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	UserName   string  `json:"user_name"`
	Amount     Number  `json:"amount"`
	Percentage *Number `json:"percentage,omitempty"`
}

// Expense is one payment recorded in a group.
type Expense struct {
	ID          string  `json:"id"`
	GroupID     string  `json:"group_id"`
	Description string  `json:"description"`
	Amount      Number  `json:"amount"`
	PaidBy      string  `json:"paid_by"`
	PaidByName  string  `json:"paid_by_name"`
	SplitType   string  `json:"split_type"`
	Splits      []Split `json:"splits"`
	CreatedAt   int64   `json:"created_at"`
}

// MemberBalance is one member's standing in a group.
type MemberBalance struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Balance   Number `json:"balance"`
	PaidTotal Number `json:"paid_total"`
	OwesTotal Number `json:"owes_total"`
}

// GroupBalance is a user's standing in one of their groups.
type GroupBalance struct {
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
	Balance   Number `json:"balance"`
	PaidTotal Number `json:"paid_total"`
	OwesTotal Number `json:"owes_total"`
}

// BalanceSummary rolls balances up for a user or the whole system.
type BalanceSummary struct {
	TotalBalance     Number `json:"total_balance"`
	GroupsWithDebt   int    `json:"groups_with_debt"`
	GroupsWithCredit int    `json:"groups_with_credit"`
	LargestDebt      Number `json:"largest_debt"`
	LargestCredit    Number `json:"largest_credit"`
	TotalGroups      int    `json:"total_groups,omitempty"`
	TotalExpenses    Number `json:"total_expenses"`
}

// Settlement is a suggested payment.
type Settlement struct {
	FromUserID   string `json:"from_user_id"`
	FromUserName string `json:"from_user_name"`
	ToUserID     string `json:"to_user_id"`
	ToUserName   string `json:"to_user_name"`
	Amount       Number `json:"amount"`
}

// DeleteResponse acknowledges a delete.
type DeleteResponse struct {
	Message string `json:"message"`
}

// User service messages.

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type GetUserRequest struct {
	UserID string `json:"user_id"`
}

type ListUsersRequest struct {
	Search string `json:"search,omitempty"`
	Offset int    `json:"offset,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

type ListUsersResponse struct {
	Users []User `json:"users"`
}

// UpdateUserRequest changes only the fields that are set.
type UpdateUserRequest struct {
	UserID string  `json:"user_id"`
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
}

type UserResponse struct {
	User User `json:"user"`
}

type DeleteUserRequest struct {
	UserID string `json:"user_id"`
}

type GetUserBalancesRequest struct {
	UserID string `json:"user_id"`
}

type UserBalancesResponse struct {
	Balances []GroupBalance `json:"balances"`
}

type GetUserSummaryRequest struct {
	UserID string `json:"user_id"`
}

// UserSummaryResponse is a user with their groups and balances.
type UserSummaryResponse struct {
	User     User           `json:"user"`
	Summary  BalanceSummary `json:"summary"`
	Groups   []Group        `json:"groups"`
	Balances []GroupBalance `json:"balances"`
}

// Group service messages.

type CreateGroupRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type ListGroupsRequest struct {
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
}

type ListUserGroupsRequest struct {
	UserID string `json:"user_id"`
}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

// UpdateGroupRequest renames the group when Name is set and replaces the
// membership when MemberIDs is non-null.
type UpdateGroupRequest struct {
	GroupID   string   `json:"group_id"`
	Name      *string  `json:"name,omitempty"`
	MemberIDs []string `json:"member_ids,omitempty"`
}

type GroupResponse struct {
	Group Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GroupBalancesResponse struct {
	GroupID   string          `json:"group_id"`
	GroupName string          `json:"group_name"`
	Balances  []MemberBalance `json:"balances"`
}

type GetSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type SettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}

// Expense service messages.

// SplitInput is one entry of a percentage split.
type SplitInput struct {
	UserID     string `json:"user_id"`
	Percentage Number `json:"percentage"`
}

type CreateExpenseRequest struct {
	GroupID     string       `json:"group_id"`
	Description string       `json:"description"`
	Amount      Number       `json:"amount"`
	PaidBy      string       `json:"paid_by"`
	SplitType   string       `json:"split_type"`
	Splits      []SplitInput `json:"splits,omitempty"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type ListGroupExpensesRequest struct {
	GroupID string `json:"group_id"`
	Offset  int    `json:"offset,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

// UpdateExpenseRequest changes only the fields that are set.
type UpdateExpenseRequest struct {
	ExpenseID   string  `json:"expense_id"`
	Description *string `json:"description,omitempty"`
	Amount      *Number `json:"amount,omitempty"`
}

type ExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

// GetStatisticsRequest covers the whole ledger when GroupID is empty.
type GetStatisticsRequest struct {
	GroupID string `json:"group_id,omitempty"`
}

type StatisticsResponse struct {
	Count   int64  `json:"count"`
	Total   Number `json:"total"`
	Average Number `json:"average"`
	Min     Number `json:"min"`
	Max     Number `json:"max"`
}

// Balance service messages.

type GetUserGroupBalanceRequest struct {
	UserID  string `json:"user_id"`
	GroupID string `json:"group_id"`
}

type UserGroupBalanceResponse struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
	Balance   Number `json:"balance"`
	PaidTotal Number `json:"paid_total"`
	OwesTotal Number `json:"owes_total"`
}

type GetSystemSummaryRequest struct{}

type SummaryResponse struct {
	Summary BalanceSummary `json:"summary"`
}

// Assistant service messages.

type AskRequest struct {
	Query   string `json:"query"`
	UserID  string `json:"user_id,omitempty"`
	GroupID string `json:"group_id,omitempty"`
}

type AskResponse struct {
	Answer   string `json:"answer"`
	Strategy string `json:"strategy"`
	Cached   bool   `json:"cached"`
}
