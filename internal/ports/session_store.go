package ports

import "github.com/aalvaropc/monoledger/internal/domain"

// SessionStore persists ledger snapshots so a game can be resumed.
type SessionStore interface {
	SaveSession(snap domain.SessionSnapshot) (id string, err error)
	LoadSession(id string) (domain.SessionSnapshot, error)

	// LatestSession returns the most recently saved session.
	LatestSession() (domain.SessionSnapshot, error)
	ListSessions() ([]domain.SessionRef, error)
}
