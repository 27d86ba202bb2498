package memhost

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/nfrund/hostkit/internal/host"
)

// Localizer renders host messages to the text a client would display.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
	keys    map[string]struct{}
}

// NewLocalizer builds a localizer for one language from translation key to
// printf-style format (positional verbs like %[1]s are supported).
func NewLocalizer(tag language.Tag, translations map[string]string) (*Localizer, error) {
	builder := catalog.NewBuilder(catalog.Fallback(tag))
	keys := make(map[string]struct{}, len(translations))
	for key, format := range translations {
		if err := builder.SetString(tag, key, format); err != nil {
			return nil, fmt.Errorf("failed to add translation %s: %w", key, err)
		}
		keys[key] = struct{}{}
	}

	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
		keys:    keys,
	}, nil
}

// DefaultTranslations covers the keys scripts in this repository use.
var DefaultTranslations = map[string]string{
	"accessibility.list.or.two":  "%s or %s",
	"accessibility.list.and.two": "%s and %s",
	"chat.type.announcement":     "[%s] %s",
	"hostkit.score.report":       "%[1]s has %[3]s %[2]s",
	"multiplayer.player.joined":  "%s joined the game",
	"multiplayer.player.left":    "%s left the game",
}

// DefaultLocalizer returns an en-US localizer over DefaultTranslations.
func DefaultLocalizer() *Localizer {
	l, err := NewLocalizer(language.AmericanEnglish, DefaultTranslations)
	if err != nil {
		panic(err)
	}
	return l
}

// Language returns the localizer's language.
func (l *Localizer) Language() language.Tag {
	return l.tag
}

// Render returns the display text of msg. Unknown keys render as the key
// followed by its arguments, which is what clients show for missing strings.
func (l *Localizer) Render(msg host.Message) string {
	if !msg.IsTranslation() {
		return msg.Text
	}
	if _, ok := l.keys[msg.Translate]; !ok {
		return msg.String()
	}
	args := make([]any, len(msg.With))
	for i, arg := range msg.With {
		args[i] = arg
	}
	return l.printer.Sprintf(msg.Translate, args...)
}
