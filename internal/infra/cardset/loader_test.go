package cardset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aalvaropc/monoledger/internal/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadCardSet_YAMLObject(t *testing.T) {
	p := filepath.Join(t.TempDir(), "mini.yaml")
	writeFile(t, p, `
name: mini
cards:
  - type: normal
    name: Boardwalk
    group: {colour: Dark Blue, count: 2}
    prices:
      property: 400
      mortgage: 200
      unmortgage: 220
      buy_house: 200
      rent: 50
      street: 100
      1: 200
      2: 600
      3: 1400
      4: 1700
      hotel: 2000
  - type: railroad
    name: Reading Railroad
    prices: {property: 200, mortgage: 100, unmortgage: 110, "1": 25, "2": 50, "3": 100, "4": 200}
`)

	recs, err := NewLoader().LoadCardSet(p)
	if err != nil {
		t.Fatalf("LoadCardSet error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got=%d", len(recs))
	}
	if recs[0].Group == nil || recs[0].Group.Colour != "Dark Blue" || recs[0].Group.Count != 2 {
		t.Fatalf("unexpected group: %+v", recs[0].Group)
	}
	if recs[0].Prices["1"] != 200 {
		t.Fatalf("expected integer price key to decode, got=%v", recs[0].Prices)
	}
	if recs[1].Prices["4"] != 200 {
		t.Fatalf("unexpected railroad prices: %v", recs[1].Prices)
	}
}

func TestLoadCardSet_JSONListWithStringNumbers(t *testing.T) {
	p := filepath.Join(t.TempDir(), "utils.json")
	writeFile(t, p, `[
  {"type": "utility", "name": "Water Works",
   "prices": {"property": "150", "mortgage": 75, "unmortgage": 83, "1": 4, "2": 10}}
]`)

	recs, err := NewLoader().LoadCardSet(p)
	if err != nil {
		t.Fatalf("LoadCardSet error: %v", err)
	}
	if len(recs) != 1 || recs[0].Prices["property"] != 150 {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestLoadCardSet_CustomSelector(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested.yaml")
	writeFile(t, p, `
board:
  deeds:
    - type: utility
      name: Electric Company
      group: {color: white, count: 2}
      prices: {property: 150, mortgage: 75, unmortgage: 83, "1": 4, "2": 10}
`)

	if _, err := NewLoader().LoadCardSet(p); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config with default selector, got %v", err)
	}

	recs, err := NewLoader(WithSelector("$.board.deeds")).LoadCardSet(p)
	if err != nil {
		t.Fatalf("LoadCardSet error: %v", err)
	}
	if len(recs) != 1 || recs[0].Name != "Electric Company" {
		t.Fatalf("unexpected records: %+v", recs)
	}
	if recs[0].Group == nil || recs[0].Group.Colour != "white" {
		t.Fatalf("expected color alias to fill colour, got %+v", recs[0].Group)
	}
}

func TestLoadCardSet_Errors(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name    string
		file    string
		content string
		kind    domain.ErrorKind
	}{
		{"missing file", "nope.yaml", "", domain.KindNotFound},
		{"bad yaml", "bad.yaml", "cards: [", domain.KindInvalidConfig},
		{"empty", "empty.yaml", "", domain.KindInvalidConfig},
		{"not a list", "scalar.yaml", "cards: 3", domain.KindInvalidConfig},
		{"unknown type", "ferry.yaml", "- {type: ferry, name: Ferry, prices: {property: 1, mortgage: 1, unmortgage: 1}}", domain.KindUnexpectedValue},
		{"missing price", "short.yaml", "- {type: utility, name: Water Works, prices: {property: 150}}", domain.KindUnexpectedValue},
		{"bad price", "word.yaml", "- {type: utility, name: Water Works, prices: {property: lots}}", domain.KindUnexpectedValue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := filepath.Join(dir, tc.file)
			if tc.content != "" || tc.kind != domain.KindNotFound {
				writeFile(t, p, tc.content)
			}
			_, err := NewLoader().LoadCardSet(p)
			if !domain.IsKind(err, tc.kind) {
				t.Fatalf("expected %s, got %v", tc.kind, err)
			}
		})
	}
}

func TestListCardSets_Sorted(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "decks", "uk.yml"), "[]")
	writeFile(t, filepath.Join(root, "decks", "classic.yaml"), "[]")
	writeFile(t, filepath.Join(root, "decks", "mini.json"), "[]")
	writeFile(t, filepath.Join(root, "decks", "README.md"), "notes")

	refs, err := NewLoader(WithCardSetsDir("decks")).ListCardSets(root)
	if err != nil {
		t.Fatalf("ListCardSets error: %v", err)
	}

	want := []string{"classic", "mini", "uk"}
	if len(refs) != len(want) {
		t.Fatalf("expected %d refs, got=%d (%+v)", len(want), len(refs), refs)
	}
	for i, name := range want {
		if refs[i].Name != name {
			t.Fatalf("refs[%d]: expected %s, got=%s", i, name, refs[i].Name)
		}
	}
}

func TestListCardSets_MissingDir(t *testing.T) {
	_, err := NewLoader().ListCardSets(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}
