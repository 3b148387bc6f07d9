package usecase

import (
	"strings"

	"github.com/aalvaropc/monoledger/internal/domain"
	"github.com/aalvaropc/monoledger/internal/ports"
)

// StartSession creates a session from a card set file, seats the players
// and saves it.
type StartSession struct {
	cards    ports.CardSetLoader
	sessions *Sessions
}

func NewStartSession(cards ports.CardSetLoader, sessions *Sessions) *StartSession {
	return &StartSession{cards: cards, sessions: sessions}
}

func (uc *StartSession) Execute(cardSetPath, cardSetName string, players []string) (*Session, error) {
	records, err := uc.cards.LoadCardSet(cardSetPath)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cardSetName) == "" {
		cardSetName = cardSetPath
	}
	sess, err := uc.sessions.Create(cardSetName, records)
	if err != nil {
		return nil, err
	}

	if len(players) > 0 {
		if _, err := sess.Ledger.AddPlayers(players...); err != nil {
			return nil, err
		}
	}

	if err := uc.sessions.Save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// ValidateCardSet loads a card set and builds its properties without
// starting a session.
type ValidateCardSet struct {
	cards ports.CardSetLoader
}

func NewValidateCardSet(cards ports.CardSetLoader) *ValidateCardSet {
	return &ValidateCardSet{cards: cards}
}

func (uc *ValidateCardSet) Execute(path string) ([]domain.Property, error) {
	records, err := uc.cards.LoadCardSet(path)
	if err != nil {
		return nil, err
	}
	return domain.BuildProperties(records)
}
