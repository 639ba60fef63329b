// Package search scans every collection's newest-first view for records whose
// readable text contains a query. Nothing is indexed ahead of time; each call
// reads the store as it is at that moment.
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/whatisthe411/the411/backend/internal/model/content"
)

// Hit is one matching record and the collection it came from.
type Hit struct {
	Collection content.CollectionName `json:"collection"`
	Record     content.Record         `json:"record"`
}

// Service runs cross-collection searches over a content store.
type Service struct {
	store content.Reader
}

// New returns a search Service reading from store.
func New(store content.Reader) *Service {
	return &Service{store: store}
}

// Search returns records matching query, case-insensitively. An empty or
// blank query matches nothing. Results keep each collection's newest-first
// order and follow the fixed collection order.
func (s *Service) Search(query string) []Hit {
	needle := fold(strings.TrimSpace(query))
	if needle == "" {
		return []Hit{}
	}

	hits := make([]Hit, 0)
	for _, name := range content.Collections() {
		fields := name.MatchableFields()
		for _, rec := range s.store.View(name) {
			if matches(rec, fields, needle) {
				hits = append(hits, Hit{Collection: name, Record: rec})
			}
		}
	}
	return hits
}

// Limit truncates hits to at most n entries; n <= 0 means no limit.
func Limit(hits []Hit, n int) []Hit {
	if n <= 0 || len(hits) <= n {
		return hits
	}
	return hits[:n]
}

func matches(rec content.Record, fields []string, needle string) bool {
	for _, field := range fields {
		text, ok := rec.Text(field)
		if !ok || text == "" {
			continue
		}
		if strings.Contains(fold(text), needle) {
			return true
		}
	}
	return false
}

// fold lower-cases s without locale-specific rules. A fresh Caser is used per
// call because Casers are not safe for concurrent use.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}
