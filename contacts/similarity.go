package contacts

import (
	"strings"
	"unicode"
)

// Normalize lowercases, strips everything but letters, digits and
// spaces, and trims. Both lookup queries and contact fields pass
// through here before scoring.
func Normalize(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Similarity returns an order-aware score in [0,1] between two raw
// strings. Order-aware matching matters: plain letter-overlap scoring
// made "ankith" match "padakanti".
func Similarity(query, candidate string) float64 {
	qn := []rune(Normalize(query))
	cn := []rune(Normalize(candidate))
	if len(qn) == 0 || len(cn) == 0 {
		return 0
	}
	matched := matchedTotal(qn, cn)
	return 2 * float64(matched) / float64(len(qn)+len(cn))
}

// matchedTotal sums the lengths of the longest common blocks, found
// recursively on each side of the longest one.
func matchedTotal(a, b []rune) int {
	ai, bi, size := longestBlock(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchedTotal(a[:ai], b[:bi])
	total += matchedTotal(a[ai+size:], b[bi+size:])
	return total
}

func longestBlock(a, b []rune) (ai, bi, size int) {
	lengths := make(map[int]int, len(b))
	for i := range a {
		next := make(map[int]int, len(b))
		for j := range b {
			if a[i] != b[j] {
				continue
			}
			k := lengths[j-1] + 1
			next[j] = k
			if k > size {
				size = k
				ai = i - k + 1
				bi = j - k + 1
			}
		}
		lengths = next
	}
	return ai, bi, size
}
