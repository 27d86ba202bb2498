package host

import "strings"

// Message is overlay or chat content: either plain text or a translation key
// with ordered substitution arguments.
type Message struct {
	Text      string   `json:"text,omitempty"`
	Translate string   `json:"translate,omitempty"`
	With      []string `json:"with,omitempty"`
}

// Text builds a plain-text message.
func Text(s string) Message {
	return Message{Text: s}
}

// Translate builds a localized message resolved by the host.
func Translate(key string, with ...string) Message {
	return Message{Translate: key, With: with}
}

// IsTranslation reports whether the host must localize the message.
func (m Message) IsTranslation() bool {
	return m.Translate != ""
}

// String renders the message without localization.
func (m Message) String() string {
	if !m.IsTranslation() {
		return m.Text
	}
	if len(m.With) == 0 {
		return m.Translate
	}
	return m.Translate + "(" + strings.Join(m.With, ", ") + ")"
}
