package collection

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/whatisthe411/the411/backend/internal/model/content"
	"github.com/whatisthe411/the411/backend/internal/service/search"
)

func setupRouter(t *testing.T) (*chi.Mux, *content.Store) {
	t.Helper()
	store := content.NewStore()
	var records []content.Record
	for _, id := range []string{"1", "2", "3"} {
		rec, err := content.NewRecord(id, map[string]any{"title": "Episode " + id})
		if err != nil {
			t.Fatalf("NewRecord err: %v", err)
		}
		records = append(records, rec)
	}
	store.Replace(content.Podcasts, records)
	store.MarkFailed(content.Blogs, errors.New("backend down"))

	r := chi.NewRouter()
	New(store, search.New(store)).RegisterRoutes(r)
	return r, store
}

func doGet(t *testing.T, r http.Handler, target string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode err: %v", err)
		}
	}
	return resp.Code
}

func TestListStatuses(t *testing.T) {
	r, _ := setupRouter(t)

	var statuses []content.LoadStatus
	if code := doGet(t, r, "/collections", &statuses); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(statuses) != 8 {
		t.Fatalf("expected 8 statuses, got %d", len(statuses))
	}
	if statuses[3].Collection != content.Blogs || statuses[3].State != content.StateFailed {
		t.Fatalf("unexpected blogs status: %+v", statuses[3])
	}
	if statuses[5].Collection != content.Podcasts || statuses[5].Count != 3 {
		t.Fatalf("unexpected podcasts status: %+v", statuses[5])
	}
}

func TestViewIsNewestFirst(t *testing.T) {
	r, _ := setupRouter(t)

	var body struct {
		Collection string           `json:"collection"`
		Data       []map[string]any `json:"data"`
	}
	if code := doGet(t, r, "/collections/podcasts", &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(body.Data) != 3 {
		t.Fatalf("expected 3 records, got %d", len(body.Data))
	}
	if body.Data[0]["title"] != "Episode 3" {
		t.Fatalf("expected newest first, got %v", body.Data[0])
	}
}

func TestViewUnknownCollection(t *testing.T) {
	r, _ := setupRouter(t)
	if code := doGet(t, r, "/collections/recipes", nil); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestRecordLookup(t *testing.T) {
	r, _ := setupRouter(t)

	if code := doGet(t, r, "/collections/podcasts/2", nil); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := doGet(t, r, "/collections/podcasts/99", nil); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if code := doGet(t, r, "/collections/blogs/2", nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 for other collection, got %d", code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	r, _ := setupRouter(t)

	var body struct {
		Count int `json:"count"`
	}
	if code := doGet(t, r, "/search?q=EPISODE", &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.Count != 3 {
		t.Fatalf("expected 3 hits, got %d", body.Count)
	}

	if code := doGet(t, r, "/search?q=episode&limit=1", &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.Count != 1 {
		t.Fatalf("expected limited hits, got %d", body.Count)
	}

	if code := doGet(t, r, "/search", &body); code != http.StatusOK || body.Count != 0 {
		t.Fatalf("expected empty result for empty query, got code=%d count=%d", code, body.Count)
	}

	if code := doGet(t, r, "/search?q=x&limit=-1", nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}
