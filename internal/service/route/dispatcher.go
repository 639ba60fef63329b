// Package route maps shell paths to page payloads.
package route

import (
	"net/url"
	"strings"

	"github.com/whatisthe411/the411/backend/internal/model/content"
	"github.com/whatisthe411/the411/backend/internal/service/search"
)

// Kind names the page a path resolves to.
type Kind string

const (
	KindLanding       Kind = "landing"
	KindHome          Kind = "home"
	KindListing       Kind = "listing"
	KindDetail        Kind = "detail"
	KindSearch        Kind = "search"
	KindAbout         Kind = "about"
	KindCoolStuff     Kind = "cool-stuff"
	KindCategory      Kind = "category"
	KindNewsletter    Kind = "newsletter"
	KindQuestionnaire Kind = "questionnaire"
	KindNotFound      Kind = "not-found"
)

// Page is everything the shell needs to render one navigation.
type Page struct {
	Kind       Kind                                        `json:"kind"`
	Path       string                                      `json:"path"`
	Collection content.CollectionName                      `json:"collection,omitempty"`
	Record     *content.Record                             `json:"record,omitempty"`
	Views      map[content.CollectionName][]content.Record `json:"views,omitempty"`
	Query      string                                      `json:"query,omitempty"`
	Hits       []search.Hit                                `json:"hits,omitempty"`
}

// Found reports whether the page is anything other than not-found.
func (p Page) Found() bool {
	return p.Kind != KindNotFound
}

// contentTypes maps the singular path segment to its collection.
var contentTypes = map[string]content.CollectionName{
	"blog":        content.Blogs,
	"humour":      content.Humours,
	"personality": content.Personalities,
	"imagination": content.Imaginations,
	"video":       content.Videos,
	"podcast":     content.Podcasts,
}

// staticPages are single-segment routes that are not content listings.
var staticPages = map[string]Kind{
	"home":          KindHome,
	"search":        KindSearch,
	"about":         KindAbout,
	"cool-stuff":    KindCoolStuff,
	"category":      KindCategory,
	"newsletter":    KindNewsletter,
	"mail":          KindNewsletter,
	"questionnaire": KindQuestionnaire,
}

// Dispatcher resolves paths against the current store contents.
type Dispatcher struct {
	store  content.Reader
	search *search.Service
}

// New creates a Dispatcher.
func New(store content.Reader, searchSvc *search.Service) *Dispatcher {
	if searchSvc == nil {
		searchSvc = search.New(store)
	}
	return &Dispatcher{store: store, search: searchSvc}
}

// Resolve maps target (a path with an optional query string) to a Page.
// Unknown paths and detail misses resolve to the not-found page.
func (d *Dispatcher) Resolve(target string) Page {
	u, err := url.Parse(target)
	if err != nil {
		return notFound(target)
	}
	return d.ResolvePath(u.Path, u.Query())
}

// ResolvePath maps an already decoded path and its query to a Page. The path
// is taken literally, so record ids may contain '?', '#' or '%'.
func (d *Dispatcher) ResolvePath(rawPath string, query url.Values) Page {
	path := "/" + strings.Trim(rawPath, "/")
	segments := splitPath(path)

	switch len(segments) {
	case 0:
		return Page{
			Kind:  KindLanding,
			Path:  path,
			Views: d.views(content.Humours, content.Blogs),
		}
	case 1:
		return d.resolveSingle(path, segments[0], query)
	case 2:
		return d.resolveDetail(path, segments[0], segments[1])
	default:
		return notFound(path)
	}
}

func (d *Dispatcher) resolveSingle(path, segment string, query url.Values) Page {
	segment = strings.ToLower(segment)
	if c, ok := contentTypes[segment]; ok {
		return Page{
			Kind:       KindListing,
			Path:       path,
			Collection: c,
			Views:      d.views(content.ContentCollections()...),
		}
	}

	kind, ok := staticPages[segment]
	if !ok {
		return notFound(path)
	}

	page := Page{Kind: kind, Path: path}
	switch kind {
	case KindHome, KindCoolStuff:
		page.Views = d.views(content.ContentCollections()...)
	case KindAbout:
		page.Collection = content.Abouts
		page.Views = d.views(content.Abouts)
	case KindSearch:
		page.Query = strings.TrimSpace(query.Get("q"))
		page.Hits = d.search.Search(page.Query)
	}
	return page
}

// resolveDetail matches the type segment case-insensitively; the id is exact.
func (d *Dispatcher) resolveDetail(path, segment, id string) Page {
	c, ok := contentTypes[strings.ToLower(segment)]
	if !ok {
		return notFound(path)
	}

	rec, ok := d.store.FindByID(c, id)
	if !ok {
		return notFound(path)
	}

	return Page{
		Kind:       KindDetail,
		Path:       path,
		Collection: c,
		Record:     &rec,
		Views:      d.views(content.ContentCollections()...),
	}
}

func (d *Dispatcher) views(names ...content.CollectionName) map[content.CollectionName][]content.Record {
	out := make(map[content.CollectionName][]content.Record, len(names))
	for _, name := range names {
		out[name] = d.store.View(name)
	}
	return out
}

func notFound(path string) Page {
	return Page{Kind: KindNotFound, Path: path}
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
