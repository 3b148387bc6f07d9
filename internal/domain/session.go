package domain

import "time"

// WorkspaceSpec describes where a workspace is initialized.
type WorkspaceSpec struct {
	Root string
}

// SessionSnapshot is the persisted state of a ledger. It carries the card
// records so a session can be restored without the original card set file.
type SessionSnapshot struct {
	ID      string `json:"id"`
	CardSet string `json:"card_set"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	MinPropSimilarity int `json:"min_prop_similarity"`

	Cards      []CardRecord    `json:"cards"`
	Players    []Player        `json:"players"`
	Properties []PropertyState `json:"properties"`
}

// PropertyState is the mutable part of a property, keyed by name.
type PropertyState struct {
	Name         string   `json:"name"`
	Owner        PlayerID `json:"owner"`
	Mortgaged    bool     `json:"mortgaged"`
	Houses       int      `json:"houses"`
	TimesStepped int      `json:"times_stepped"`
	SteppedPrice int      `json:"stepped_price"`
}

// SessionRef is a lightweight reference to a saved session.
type SessionRef struct {
	ID      string    `json:"id"`
	File    string    `json:"file"`
	CardSet string    `json:"card_set"`
	Players []string  `json:"players"`
	SavedAt time.Time `json:"saved_at"`
}
