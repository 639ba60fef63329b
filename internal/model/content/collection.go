package content

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// CollectionName identifies one content collection on the CMS backend.
type CollectionName string

const (
	Humours       CollectionName = "humours"
	Imaginations  CollectionName = "imaginations"
	Personalities CollectionName = "personalities"
	Blogs         CollectionName = "blogs"
	Videos        CollectionName = "videos"
	Podcasts      CollectionName = "podcasts"
	Carousels     CollectionName = "carousels"
	Abouts        CollectionName = "abouts"
)

// ErrUnknownCollection is returned when a name is not one of the eight collections.
var ErrUnknownCollection = goerr.New("unknown collection")

// collectionOrder is the fixed order used for listings and search concatenation.
var collectionOrder = [...]CollectionName{
	Humours,
	Imaginations,
	Personalities,
	Blogs,
	Videos,
	Podcasts,
	Carousels,
	Abouts,
}

const collectionCount = len(collectionOrder)

// Collections returns every collection in the fixed presentation order.
func Collections() []CollectionName {
	out := make([]CollectionName, collectionCount)
	copy(out, collectionOrder[:])
	return out
}

// ContentCollections returns the collections shown on listing pages (everything but abouts).
func ContentCollections() []CollectionName {
	return Collections()[:collectionCount-1]
}

// ParseCollection maps a raw name to a CollectionName.
func ParseCollection(raw string) (CollectionName, error) {
	name := CollectionName(strings.ToLower(strings.TrimSpace(raw)))
	if name.index() < 0 {
		return "", goerr.Wrap(ErrUnknownCollection, "parse collection", goerr.V("name", raw))
	}
	return name, nil
}

// Valid reports whether c is one of the eight known collections.
func (c CollectionName) Valid() bool {
	return c.index() >= 0
}

func (c CollectionName) String() string {
	return string(c)
}

func (c CollectionName) index() int {
	for i, name := range collectionOrder {
		if name == c {
			return i
		}
	}
	return -1
}

// matchableFields lists the human-readable fields searched per collection.
var matchableFields = map[CollectionName][]string{
	Humours:       {"title", "summary", "description", "body", "content"},
	Imaginations:  {"title", "summary", "description", "body", "content"},
	Personalities: {"title", "summary", "description", "body", "content"},
	Blogs:         {"title", "summary", "description", "body", "content"},
	Videos:        {"title", "summary", "description", "caption"},
	Podcasts:      {"title", "summary", "description", "host"},
	Carousels:     {"title", "caption"},
	Abouts:        {"title", "body", "content"},
}

// MatchableFields returns the searchable field names of c.
func (c CollectionName) MatchableFields() []string {
	return append([]string(nil), matchableFields[c]...)
}
