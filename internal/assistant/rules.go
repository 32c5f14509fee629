package assistant

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/money"
)

var (
	balanceWords = []string{"owe", "owes", "balance", "balances", "debt", "money", "amount"}
	expenseWords = []string{"expense", "expenses", "paid", "spend", "spending", "cost"}
	recentWords  = []string{"recent", "latest", "last", "new"}
	groupWords   = []string{"group", "groups", "list"}
)

// maxRecent is how many expenses a "recent expenses" answer lists.
const maxRecent = 5

// Rules answers from the snapshot with keyword matching and fixed
// templates. It never fails and needs no network.
type Rules struct{}

var _ Answerer = Rules{}

func (Rules) Name() string {
	return "rules"
}

func (Rules) Answer(_ context.Context, q Question, snap *Snapshot) (string, error) {
	query := strings.ToLower(q.Query)
	words := strings.FieldsFunc(query, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '\'')
	})

	users := mentionedUsers(query, snap)
	groups := mentionedGroups(words, snap)
	if len(users) == 0 {
		if u := snap.user(q.UserID); u != nil {
			users = append(users, *u)
		}
	}
	if len(groups) == 0 {
		if g := snap.group(q.GroupID); g != nil {
			groups = append(groups, *g)
		}
	}

	switch {
	case containsAny(words, balanceWords):
		return balanceAnswer(users, groups, snap), nil
	case containsAny(words, expenseWords) && containsAny(words, recentWords):
		return recentAnswer(groups, snap), nil
	case containsAny(words, expenseWords):
		return expenseAnswer(groups, snap), nil
	case containsAny(words, groupWords):
		return groupsAnswer(snap), nil
	default:
		return helpAnswer(q.Query, snap), nil
	}
}

func containsAny(words, keywords []string) bool {
	return slices.ContainsFunc(words, func(w string) bool {
		return slices.Contains(keywords, w)
	})
}

// mentionedUsers matches a user by full name or by first name.
func mentionedUsers(query string, snap *Snapshot) []UserInfo {
	var found []UserInfo
	for _, u := range snap.Users {
		name := strings.ToLower(u.Name)
		first, _, _ := strings.Cut(name, " ")
		if strings.Contains(query, name) || (first != "" && strings.Contains(query, first)) {
			found = append(found, u)
		}
	}
	return found
}

// mentionedGroups matches a group when any word of its name of three or
// more letters appears in the query.
func mentionedGroups(words []string, snap *Snapshot) []GroupInfo {
	var found []GroupInfo
	for _, g := range snap.Groups {
		for _, w := range strings.Fields(strings.ToLower(g.Name)) {
			if len(w) >= 3 && slices.Contains(words, w) {
				found = append(found, g)
				break
			}
		}
	}
	return found
}

func balanceAnswer(users []UserInfo, groups []GroupInfo, snap *Snapshot) string {
	switch {
	case len(users) > 0 && len(groups) > 0:
		return userGroupBalance(users[0], groups[0])
	case len(users) > 0:
		return userBalances(users[0], snap)
	case len(groups) > 0:
		return groupBalances(groups[0])
	default:
		return fmt.Sprintf("## Balance Overview\n\nFound **%d users** in **%d groups**.\n\n"+
			"Please specify a user or group for detailed balance information.", len(snap.Users), len(snap.Groups))
	}
}

func userGroupBalance(user UserInfo, group GroupInfo) string {
	for _, b := range group.Balances {
		if b.UserID != user.ID {
			continue
		}
		header := fmt.Sprintf("## Balance for **%s** in **%s**\n\n", user.Name, group.Name)
		return header + fmt.Sprintf("**%s** %s in %s.", user.Name, standing(b.Balance), group.Name)
	}
	return fmt.Sprintf("Could not find balance information for **%s** in **%s**.", user.Name, group.Name)
}

func userBalances(user UserInfo, snap *Snapshot) string {
	var lines []string
	total := decimal.Zero
	for _, g := range snap.Groups {
		for _, b := range g.Balances {
			if b.UserID != user.ID {
				continue
			}
			total = total.Add(b.Balance)
			lines = append(lines, fmt.Sprintf("- **%s**: %s", g.Name, signed(b.Balance)))
		}
	}
	if len(lines) == 0 {
		return fmt.Sprintf("No balance information found for **%s**.", user.Name)
	}
	return fmt.Sprintf("## **%s's** Balance Summary\n\n%s\n\n**Total Overall**: %s",
		user.Name, strings.Join(lines, "\n"), signed(total))
}

func groupBalances(group GroupInfo) string {
	if len(group.Balances) == 0 {
		return fmt.Sprintf("No balance information found for **%s**.", group.Name)
	}
	lines := make([]string, 0, len(group.Balances))
	for _, b := range group.Balances {
		lines = append(lines, fmt.Sprintf("- **%s**: %s", b.UserName, standing(b.Balance)))
	}
	return fmt.Sprintf("## Balances in **%s**\n\n%s", group.Name, strings.Join(lines, "\n"))
}

func recentAnswer(groups []GroupInfo, snap *Snapshot) string {
	if len(groups) == 0 {
		groups = snap.Groups
	}

	type recent struct {
		line      string
		createdAt int64
	}
	var all []recent
	for _, g := range groups {
		for _, e := range g.RecentExpenses {
			all = append(all, recent{
				line: fmt.Sprintf("- %s for *%s* in **%s** (paid by **%s**)",
					dollars(e.Amount), e.Description, g.Name, e.PaidBy),
				createdAt: e.CreatedAt,
			})
		}
	}
	if len(all) == 0 {
		return "No recent expenses found."
	}

	slices.SortStableFunc(all, func(a, b recent) int {
		return cmp.Compare(b.createdAt, a.createdAt)
	})
	lines := make([]string, 0, maxRecent)
	for _, r := range all[:min(len(all), maxRecent)] {
		lines = append(lines, r.line)
	}
	return "## Recent Expenses\n\n" + strings.Join(lines, "\n")
}

func expenseAnswer(groups []GroupInfo, snap *Snapshot) string {
	if len(groups) > 0 {
		g := groups[0]
		return fmt.Sprintf("## Expense Summary\n\nTotal expenses in **%s**: %s", g.Name, dollars(g.TotalExpenses))
	}
	return fmt.Sprintf("## Expense Summary\n\nTotal expenses across all groups: %s", dollars(snap.TotalExpenses))
}

func groupsAnswer(snap *Snapshot) string {
	if len(snap.Groups) == 0 {
		return "No groups found."
	}
	lines := make([]string, 0, len(snap.Groups))
	for _, g := range snap.Groups {
		lines = append(lines, fmt.Sprintf("- **%s**: %d members, %s total expenses",
			g.Name, len(g.Members), dollars(g.TotalExpenses)))
	}
	return fmt.Sprintf("## Available Groups (%d)\n\n%s", len(snap.Groups), strings.Join(lines, "\n"))
}

func helpAnswer(query string, snap *Snapshot) string {
	userName, groupName := "[name]", "[group]"
	if len(snap.Users) > 0 {
		userName = snap.Users[0].Name
	}
	if len(snap.Groups) > 0 {
		groupName = snap.Groups[0].Name
	}

	var sb strings.Builder
	sb.WriteString("## Splitledger Assistant\n\n")
	fmt.Fprintf(&sb, "I found **%d users** and **%d groups** in your data.\n\n", len(snap.Users), len(snap.Groups))
	fmt.Fprintf(&sb, "You asked: *%q*\n\n", query)
	sb.WriteString("### Try asking:\n")
	fmt.Fprintf(&sb, "- \"How much does %s owe in %s?\"\n", userName, groupName)
	sb.WriteString("- \"Show me recent expenses\"\n")
	sb.WriteString("- \"List all groups\"\n")
	fmt.Fprintf(&sb, "- \"What are %s's balances?\"", userName)
	return sb.String()
}

// standing phrases a balance from the member's point of view.
func standing(balance decimal.Decimal) string {
	switch {
	case money.IsDust(balance):
		return "is **settled up**"
	case balance.IsPositive():
		return "is owed " + dollars(balance)
	default:
		return "owes " + dollars(balance)
	}
}

func signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + dollars(d)
	}
	return "+" + dollars(d)
}

func dollars(d decimal.Decimal) string {
	return "**$" + d.Abs().StringFixed(money.Places) + "**"
}
