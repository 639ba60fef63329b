package content_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/whatisthe411/the411/backend/internal/model/content"
)

func TestRecordKeepsRawJSON(t *testing.T) {
	raw := `{"id":7,"attributes":{"title":"Late Night","tags":["a","b"]}}`

	var rec content.Record
	gt.NoError(t, json.Unmarshal([]byte(raw), &rec))
	gt.Equal(t, rec.ID, "7")

	out, err := json.Marshal(rec)
	gt.NoError(t, err)
	gt.Equal(t, string(out), raw)
}

func TestRecordStringID(t *testing.T) {
	var rec content.Record
	gt.NoError(t, json.Unmarshal([]byte(`{"id":"abc-1","title":"x"}`), &rec))
	gt.Equal(t, rec.ID, "abc-1")
}

func TestRecordRejectsBadIDs(t *testing.T) {
	testCases := map[string]error{
		`{"title":"no id"}`: content.ErrMissingID,
		`{"id":""}`:         content.ErrMissingID,
		`{"id":1.5}`:        content.ErrInvalidID,
		`{"id":true}`:       content.ErrInvalidID,
		`{"id":null}`:       content.ErrInvalidID,
	}

	for raw, want := range testCases {
		t.Run(raw, func(t *testing.T) {
			var rec content.Record
			err := json.Unmarshal([]byte(raw), &rec)
			gt.Error(t, err)
			gt.True(t, errors.Is(err, want))
		})
	}
}

func TestRecordTextLooksUpAttributes(t *testing.T) {
	var rec content.Record
	gt.NoError(t, json.Unmarshal([]byte(`{"id":1,"summary":"top","attributes":{"title":"Nested","views":3}}`), &rec))

	title, ok := rec.Text("title")
	gt.True(t, ok)
	gt.Equal(t, title, "Nested")

	summary, ok := rec.Text("summary")
	gt.True(t, ok)
	gt.Equal(t, summary, "top")

	_, ok = rec.Text("views")
	gt.False(t, ok)

	_, ok = rec.Text("missing")
	gt.False(t, ok)
}

func TestNewRecordNumericID(t *testing.T) {
	rec, err := content.NewRecord("42", map[string]any{"title": "Answer"})
	gt.NoError(t, err)
	gt.Equal(t, rec.ID, "42")
	gt.S(t, string(rec.Raw())).Contains(`"id":42`)
}

func TestNewRecordKeepsNonCanonicalNumericID(t *testing.T) {
	for _, id := range []string{"042", "+7", "-0"} {
		rec, err := content.NewRecord(id, map[string]any{"title": "Padded"})
		gt.NoError(t, err)
		gt.Equal(t, rec.ID, id)
		gt.S(t, string(rec.Raw())).Contains(`"id":"` + id + `"`)
	}

	store := content.NewStore()
	rec, err := content.NewRecord("042", nil)
	gt.NoError(t, err)
	store.Replace(content.Blogs, []content.Record{rec})
	_, ok := store.FindByID(content.Blogs, "042")
	gt.True(t, ok)
	_, ok = store.FindByID(content.Blogs, "42")
	gt.False(t, ok)
}

func TestParseCollection(t *testing.T) {
	name, err := content.ParseCollection(" Blogs ")
	gt.NoError(t, err)
	gt.Equal(t, name, content.Blogs)

	_, err = content.ParseCollection("recipes")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, content.ErrUnknownCollection))
}

func TestCollectionsOrder(t *testing.T) {
	gt.Equal(t, content.Collections(), []content.CollectionName{
		content.Humours,
		content.Imaginations,
		content.Personalities,
		content.Blogs,
		content.Videos,
		content.Podcasts,
		content.Carousels,
		content.Abouts,
	})
	gt.A(t, content.ContentCollections()).Length(7)
}
