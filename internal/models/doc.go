// Package models defines the core domain models for Wanderlust.
//
// A Trip is the unit of planning: it owns an AI-generated itinerary,
// tracked flights, travel insights, and a shared-expense ledger made of
// Travelers, ExpenseFolders and Expenses. Balances and settlements are
// derived values and never stored; see the settlement package.
//
// Relationships are expressed through ID strings (UUID format) rather
// than pointers to avoid circular references. Amounts are float64 values
// in abstract currency units; the trip carries a currency code and
// presentation is left to clients.
package models
