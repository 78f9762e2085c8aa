// Package models defines the core domain models for paysplit.
//
// # Models
//
//   - PaymentSplitMethod: an ordered, configurable payment split method.
//     Each method references exactly one plugin by ID; the plugin supplies its
//     display name and behavior.
//   - Admin: an account allowed to manage payment split methods.
//
// # Design Principles
//
//  1. Relationships use ID strings, never pointers (a method stores PluginID,
//     the registry resolves it).
//  2. Ordering is a plain integer weight; ties are broken by label.
//  3. Timestamps are Unix seconds.
package models
