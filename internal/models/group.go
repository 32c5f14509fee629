package models

import "strings"

// MinGroupMembers is the smallest membership a group may have.
const MinGroupMembers = 2

// Group represents a set of users who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Trip").
	Name string

	// Members are the users in this group, ordered by name.
	Members []Member

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member is a group member with its display name.
type Member struct {
	UserID string
	Name   string
}

// MemberIDs returns the user IDs of the group's members.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.UserID
	}
	return ids
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// GroupPatch lists the mutable group fields. A nil MemberIDs leaves the
// membership unchanged; a non-nil one replaces it.
type GroupPatch struct {
	Name      *string
	MemberIDs []string
}

// Empty reports whether the patch changes nothing.
func (p GroupPatch) Empty() bool {
	return p.Name == nil && p.MemberIDs == nil
}

// Apply copies the name onto g. Membership is resolved by the caller since
// it needs user lookups.
func (p GroupPatch) Apply(g *Group) {
	if p.Name != nil {
		g.Name = strings.TrimSpace(*p.Name)
	}
}

// Page selects a window of an ordered listing. A zero Limit means no limit.
type Page struct {
	Offset int
	Limit  int
}
