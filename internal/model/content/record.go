package content

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrMissingID = goerr.New("record has no id")
	ErrInvalidID = goerr.New("record id must be a string or integer")
)

// Record is one content item. Only the identifier is interpreted; the rest of
// the object is kept verbatim and re-encoded unchanged.
type Record struct {
	ID     string
	raw    json.RawMessage
	fields map[string]json.RawMessage
}

// NewRecord builds a Record from an id and a set of top-level fields.
func NewRecord(id string, fields map[string]any) (Record, error) {
	obj := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		obj[k] = v
	}
	obj["id"] = id
	if n, err := strconv.ParseInt(id, 10, 64); err == nil && strconv.FormatInt(n, 10) == id {
		obj["id"] = n
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return Record{}, goerr.Wrap(err, "failed to encode record", goerr.V("id", id))
	}

	var rec Record
	if err := rec.UnmarshalJSON(data); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// UnmarshalJSON keeps the raw object and extracts the identifier.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return goerr.Wrap(err, "record is not a JSON object")
	}
	if fields == nil {
		return goerr.New("record is null")
	}

	rawID, ok := fields["id"]
	if !ok {
		return ErrMissingID
	}
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	r.ID = id
	r.raw = append(json.RawMessage(nil), data...)
	r.fields = fields
	return nil
}

// MarshalJSON emits the record exactly as it was received.
func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.raw, nil
}

// Raw returns a copy of the original JSON object.
func (r Record) Raw() json.RawMessage {
	return append(json.RawMessage(nil), r.raw...)
}

// Text returns a string field either at top level or under the Strapi
// "attributes" object. Non-string values report false.
func (r Record) Text(name string) (string, bool) {
	if s, ok := stringField(r.fields, name); ok {
		return s, true
	}

	attrs, ok := r.fields["attributes"]
	if !ok {
		return "", false
	}
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(attrs, &nested); err != nil {
		return "", false
	}
	return stringField(nested, name)
}

func stringField(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := fields[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func parseID(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", goerr.Wrap(ErrInvalidID, "decode id", goerr.V("raw", string(raw)))
	}

	switch id := v.(type) {
	case string:
		if id == "" {
			return "", ErrMissingID
		}
		return id, nil
	case json.Number:
		if _, err := id.Int64(); err != nil {
			return "", goerr.Wrap(ErrInvalidID, "id is not an integer", goerr.V("raw", id.String()))
		}
		return id.String(), nil
	default:
		return "", goerr.Wrap(ErrInvalidID, "unsupported id type", goerr.V("raw", string(raw)))
	}
}
