// Package stores persists committed profiles, the references between
// them and an audit trail of commits. SQLiteStore keeps them in SQLite
// with schema migrations; MemoryStore keeps them in process memory with
// the same semantics.
package stores
