// Package models defines the core domain models for the lunch fund ledger.
//
// # Models
//
//   - Member: a registered participant, identified by a unique name
//   - Deposit: a credit to a member's balance (manual or auto-generated)
//   - Meal: one shared-cost event together with its apportionment modes
//   - MealShare: one member's computed charge for a given meal
//   - MemberBalance: derived view, never stored
//
// Amounts are whole currency units (int64). There is no fractional currency;
// remainders are distributed by the calculator so that shares always sum
// exactly to the amount being split.
//
// # Relationships
//
// Members are referenced by name rather than by a numeric id. Deleting a member
// removes their deposits and meal shares. Deleting a meal removes its shares and
// any deposit whose SourceMealID points at it.
package models
