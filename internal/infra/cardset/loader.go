package cardset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/monoledger/internal/domain"
	"github.com/aalvaropc/monoledger/internal/ports"
)

// Loader reads card sets from YAML or JSON files.
//
// A document is either a list of records or an object; for objects the
// record list is located with a JSONPath selector ("$.cards" by default).
type Loader struct {
	cardSetsDir string
	selector    string
}

type Option func(*Loader)

func WithCardSetsDir(dir string) Option {
	return func(l *Loader) {
		if strings.TrimSpace(dir) != "" {
			l.cardSetsDir = dir
		}
	}
}

func WithSelector(expr string) Option {
	return func(l *Loader) {
		if strings.TrimSpace(expr) != "" {
			l.selector = expr
		}
	}
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		cardSetsDir: "cardsets",
		selector:    "$.cards",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ ports.CardSetLoader = (*Loader)(nil)

func (l *Loader) LoadCardSet(path string) ([]domain.CardRecord, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "cardset.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	doc, err := parseDocument(path, b)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "cardset.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	raw, err := l.recordList(doc)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "cardset.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	records := make([]domain.CardRecord, 0, len(raw))
	for i, item := range raw {
		rec, err := decodeRecord(item)
		if err != nil {
			return nil, &domain.OpError{
				Op:   "cardset.load",
				Kind: domain.KindUnexpectedValue,
				Path: path,
				Err:  fmt.Errorf("records[%d]: %w", i, err),
			}
		}
		records = append(records, rec)
	}

	// The ledger builds properties again; this only surfaces bad records
	// with the file path attached.
	if _, err := domain.BuildProperties(records); err != nil {
		return nil, &domain.OpError{
			Op:   "cardset.load",
			Kind: domain.KindOf(err),
			Path: path,
			Err:  err,
		}
	}

	return records, nil
}

func (l *Loader) ListCardSets(root string) ([]domain.CardSetRef, error) {
	dir := filepath.Join(root, l.cardSetsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "cardset.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.CardSetRef
	for _, e := range entries {
		if e.IsDir() || !IsCardSetFile(e.Name()) {
			continue
		}
		name := e.Name()
		refs = append(refs, domain.CardSetRef{
			Name: strings.TrimSuffix(name, filepath.Ext(name)),
			Path: filepath.Join(dir, name),
		})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// IsCardSetFile reports whether name has a card set extension.
func IsCardSetFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func parseDocument(path string, b []byte) (any, error) {
	var doc any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (l *Loader) recordList(doc any) ([]any, error) {
	switch v := doc.(type) {
	case []any:
		return v, nil
	case nil:
		return nil, fmt.Errorf("card set is empty")
	}

	selected, err := jsonpath.Get(l.selector, doc)
	if err != nil {
		return nil, fmt.Errorf("selector %s: %w", l.selector, err)
	}
	list, ok := selected.([]any)
	if !ok {
		return nil, fmt.Errorf("selector %s: expected a list of records, got %T", l.selector, selected)
	}
	return list, nil
}

type recordDTO struct {
	Type   string         `mapstructure:"type"`
	Name   string         `mapstructure:"name"`
	Prices map[string]int `mapstructure:"prices"`
	Group  *groupDTO      `mapstructure:"group"`
}

type groupDTO struct {
	Colour string `mapstructure:"colour"`
	Color  string `mapstructure:"color"`
	Count  int    `mapstructure:"count"`
}

// decodeRecord maps a generic record onto a CardRecord. Numbers may be
// written as strings ("200") and price keys as integers (1: 10).
func decodeRecord(item any) (domain.CardRecord, error) {
	var dto recordDTO
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &dto,
	})
	if err != nil {
		return domain.CardRecord{}, err
	}
	if err := dec.Decode(item); err != nil {
		return domain.CardRecord{}, err
	}

	rec := domain.CardRecord{
		Type:   dto.Type,
		Name:   dto.Name,
		Prices: dto.Prices,
	}
	if dto.Group != nil {
		colour := dto.Group.Colour
		if colour == "" {
			colour = dto.Group.Color
		}
		rec.Group = &domain.ColourGroup{Colour: colour, Count: dto.Group.Count}
	}
	if rec.Prices == nil {
		rec.Prices = map[string]int{}
	}
	return rec, nil
}
