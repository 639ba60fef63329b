package newsletter

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Status is the tri-state outcome reported by the mailing provider.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Message is a provider message of the form "<code> - <text>".
type Message struct {
	Code string `json:"code,omitempty"`
	Text string `json:"text"`
	Raw  string `json:"-"`
}

// ParseMessage splits raw on its first "-". When the part before it is a
// numeric status code the code is kept and the remainder becomes the text;
// otherwise the whole message is the text.
func ParseMessage(raw string) Message {
	head, tail, found := strings.Cut(raw, "-")
	code := strings.TrimSpace(head)
	if found && isStatusCode(code) {
		return Message{Code: code, Text: strings.TrimSpace(tail), Raw: raw}
	}
	return Message{Text: strings.TrimSpace(raw), Raw: raw}
}

// Display returns the text shown to the user. Only code "0" (field error)
// is stripped; any other message is shown whole.
func (m Message) Display() string {
	if m.Code == "0" {
		return sanitize(m.Text)
	}
	return sanitize(strings.TrimSpace(m.Raw))
}

func isStatusCode(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Provider messages may carry links, which the user-content policy keeps.
var policy = bluemonday.UGCPolicy()

func sanitize(s string) string {
	return policy.Sanitize(s)
}
