// Package models defines the core domain models for the ledger.
//
// # Persisted Models
//
//   - User: a registered person, identified by a UUID and a unique email
//   - Group: a named set of at least two users who share expenses
//   - Expense: one payment by a group member, owning its Splits
//   - Split: the portion of an Expense attributed to one member
//
// # Derived Models
//
// Balance, BalanceSummary and Settlement are computed from the ledger on
// demand and are never stored.
//
// # Design Principles
//
//  1. Money is decimal.Decimal in memory and integer cents at rest
//  2. Relationships use ID strings, names are denormalized for display
//  3. Partial updates use explicit patch structs with an Apply method
package models
