// Package domain contains the core domain model for monoledger.
//
// The domain is transport- and persistence-agnostic: it does not depend on YAML parsing,
// the terminal, or the filesystem. Infra/adapters map into/from these types, and the
// ledger package is the only code that mutates players and properties.
package domain
