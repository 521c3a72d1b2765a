package providers

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/M7MD889/vscode-scss/internal/storage"
	"github.com/M7MD889/vscode-scss/internal/symbols"
	"github.com/hbollon/go-edlib"
)

type scoredSymbol struct {
	info   SymbolInformation
	offset int
	score  float64
}

// WorkspaceSymbols searches every stored document under root. Names
// containing query (ignoring case) rank first; names containing its letters
// in order follow, ranked by Jaro-Winkler similarity. An empty query matches
// everything.
func WorkspaceSymbols(query string, store storage.Reader, root string) []SymbolInformation {
	lowerQuery := strings.ToLower(query)
	root = storage.NormalizePath(root)

	var hits []scoredSymbol
	for _, doc := range store.All() {
		if !underRoot(doc.Path, root) {
			continue
		}
		collect := func(name string, kind symbols.Kind, offset int, pos symbols.Position) {
			score, ok := matchScore(name, lowerQuery)
			if !ok {
				return
			}
			hits = append(hits, scoredSymbol{
				info: SymbolInformation{
					Name:     name,
					Kind:     kind,
					Location: Location{Path: doc.Path, Range: rangeOf(pos, name)},
				},
				offset: offset,
				score:  score,
			})
		}
		for _, v := range doc.Variables {
			collect(v.Name, symbols.KindVariable, v.Offset, v.Position)
		}
		for _, m := range doc.Mixins {
			collect(m.Name, symbols.KindMixin, m.Offset, m.Position)
		}
		for _, f := range doc.Functions {
			collect(f.Name, symbols.KindFunction, f.Offset, f.Position)
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.info.Location.Path != b.info.Location.Path {
			return a.info.Location.Path < b.info.Location.Path
		}
		return a.offset < b.offset
	})

	results := make([]SymbolInformation, 0, len(hits))
	for _, h := range hits {
		results = append(results, h.info)
	}
	return results
}

func underRoot(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// matchScore scores name against a lower-cased query.
func matchScore(name, lowerQuery string) (float64, bool) {
	if lowerQuery == "" {
		return 1, true
	}
	lowerName := strings.ToLower(name)
	if strings.Contains(lowerName, lowerQuery) {
		return 1 + similarity(lowerName, lowerQuery), true
	}
	if isSubsequence(lowerQuery, lowerName) {
		return similarity(lowerName, lowerQuery), true
	}
	return 0, false
}

func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0.0
	}
	return float64(score)
}

// isSubsequence reports whether the bytes of sub appear in s in order.
func isSubsequence(sub, s string) bool {
	i := 0
	for j := 0; j < len(s) && i < len(sub); j++ {
		if s[j] == sub[i] {
			i++
		}
	}
	return i == len(sub)
}
