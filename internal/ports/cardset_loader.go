package ports

import "github.com/aalvaropc/monoledger/internal/domain"

// CardSetLoader loads card sets from a source (e.g., filesystem).
type CardSetLoader interface {
	LoadCardSet(path string) ([]domain.CardRecord, error)
	ListCardSets(root string) ([]domain.CardSetRef, error)
}
