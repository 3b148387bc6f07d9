package ledger

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/aalvaropc/monoledger/internal/domain"
)

// FindProperty resolves a typed property name against the ledger's card set.
// fuzzy is true when the name only matched approximately.
func (l *Ledger) FindProperty(name string) (prop domain.Property, fuzzy bool, err error) {
	return MatchProperty(name, l.Properties(), l.defaults.MinPropSimilarity)
}

// MatchProperty returns the corpus entry whose name equals name, ignoring
// case. Otherwise it returns the most similar entry, accepted when its
// similarity percentage reaches minSimilarity. Earlier entries win ties.
func MatchProperty(name string, corpus []domain.Property, minSimilarity int) (domain.Property, bool, error) {
	const op = "ledger.findproperty"

	name = strings.TrimSpace(name)
	for _, p := range corpus {
		if strings.EqualFold(p.Name, name) {
			return p, false, nil
		}
	}

	var (
		best  = -1
		score float64
		query = strings.ToLower(name)
	)
	for i, p := range corpus {
		s := Similarity(strings.ToLower(p.Name), query)
		if best < 0 || s > score {
			best, score = i, s
		}
	}

	if best >= 0 && score*100 >= float64(minSimilarity) {
		return corpus[best], true, nil
	}
	return domain.Property{}, false, domain.Errorf(op, domain.KindNotFound,
		"couldn't find property %s in property list", name)
}

// Similarity is the normalized edit similarity of a and b in [0,1]:
// 1 - distance / length of the longer string, counted in runes.
func Similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}
