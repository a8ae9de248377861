package contacts

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Directory is the in-process view of the contacts file. Reads are
// served from memory; every Create is flushed to disk before it
// returns, so a crash between turns never loses a captured contact.
type Directory struct {
	path      string
	threshold float64

	mu    sync.RWMutex
	items []Contact
}

// Open loads the directory file (JSON or CSV by extension). A missing
// file is an empty directory, not an error.
func Open(path string, threshold float64) (*Directory, error) {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultMatchThreshold
	}
	d := &Directory{path: strings.TrimSpace(path), threshold: threshold}
	items, err := loadFile(d.path)
	if err != nil {
		return nil, err
	}
	d.items = items
	return d, nil
}

func (d *Directory) All() []Contact {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Contact, len(d.items))
	copy(out, d.items)
	return out
}

// Find classifies a human-entered name or email against the directory.
// Exact case-insensitive equality on any field wins outright; otherwise
// fuzzy candidates at or above the threshold decide between resolved,
// ambiguous and not found.
func (d *Directory) Find(query string) MatchResult {
	normalized := Normalize(query)
	if normalized == "" {
		return MatchResult{Kind: MatchNotFound}
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if exact := d.exactMatchesLocked(normalized); len(exact) > 0 {
		return classify(exact)
	}

	type scored struct {
		score   float64
		contact Contact
	}
	ranked := make([]scored, 0, 4)
	for _, c := range d.items {
		score := bestFieldScore(query, c)
		if score >= d.threshold {
			ranked = append(ranked, scored{score: score, contact: c})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	candidates := make([]Contact, 0, len(ranked))
	for _, item := range ranked {
		candidates = append(candidates, item.contact)
	}
	return classify(dedupeByEmail(candidates))
}

// FindByEmail matches the exact address, case-insensitively. When the
// same address was stored more than once the latest entry wins.
func (d *Directory) FindByEmail(email string) (Contact, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Contact{}, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i := len(d.items) - 1; i >= 0; i-- {
		if strings.ToLower(strings.TrimSpace(d.items[i].Email)) == email {
			return d.items[i], true
		}
	}
	return Contact{}, false
}

// Create validates, appends and durably persists a contact. Existing
// entries with the same email are kept in the file; lookups prefer the
// newest entry for a given address.
func (d *Directory) Create(ctx context.Context, c Contact) (Contact, error) {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Name = c.FullName()

	if c.FullName() == "" {
		return Contact{}, fmt.Errorf("%w: name", ErrValidation)
	}
	if !IsValidEmail(c.Email) {
		return Contact{}, fmt.Errorf("%w: valid email", ErrValidation)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := appendToFile(ctx, d.path, c); err != nil {
		return Contact{}, err
	}
	d.items = append(d.items, c)
	return c, nil
}

func (d *Directory) exactMatchesLocked(normalizedQuery string) []Contact {
	matches := make([]Contact, 0, 2)
	for _, c := range d.items {
		fields := [4]string{
			Normalize(c.FirstName),
			Normalize(c.LastName),
			Normalize(c.FullName()),
			Normalize(c.LocalPart()),
		}
		for _, f := range fields {
			if f != "" && f == normalizedQuery {
				matches = append(matches, c)
				break
			}
		}
	}
	return dedupeByEmail(matches)
}

func bestFieldScore(query string, c Contact) float64 {
	score := Similarity(query, c.FullName())
	for _, field := range []string{c.FirstName, c.LastName, c.LocalPart()} {
		if s := Similarity(query, field); s > score {
			score = s
		}
	}
	return score
}

// dedupeByEmail keeps the last stored entry per address, preserving the
// relative order of survivors.
func dedupeByEmail(items []Contact) []Contact {
	latest := make(map[string]int, len(items))
	for i, c := range items {
		latest[strings.ToLower(strings.TrimSpace(c.Email))] = i
	}
	out := make([]Contact, 0, len(latest))
	for i, c := range items {
		if latest[strings.ToLower(strings.TrimSpace(c.Email))] == i {
			out = append(out, c)
		}
	}
	return out
}

func classify(candidates []Contact) MatchResult {
	switch len(candidates) {
	case 0:
		return MatchResult{Kind: MatchNotFound}
	case 1:
		return MatchResult{Kind: MatchResolved, Contact: candidates[0]}
	default:
		return MatchResult{Kind: MatchAmbiguous, Candidates: candidates}
	}
}
