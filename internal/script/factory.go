package script

import (
	"fmt"
)

// Factory implements the EngineFactory interface
type Factory struct {
	supportedLanguages []ScriptLanguage
	host               *Host
}

// NewFactory creates a new engine factory. Every engine it creates exposes
// h as the support module.
func NewFactory(h *Host) *Factory {
	return &Factory{
		supportedLanguages: []ScriptLanguage{
			LanguageTengo,
			LanguageLua,
		},
		host: h,
	}
}

// CreateEngine returns an engine for the specified language
func (f *Factory) CreateEngine(language ScriptLanguage) (LanguageEngine, error) {
	switch language {
	case LanguageTengo:
		return NewTengoEngine(f.host), nil
	case LanguageLua:
		return NewLuaEngine(f.host), nil
	default:
		return nil, fmt.Errorf("unsupported script language: %s", language)
	}
}

// SupportedLanguages returns all supported script languages
func (f *Factory) SupportedLanguages() []ScriptLanguage {
	languages := make([]ScriptLanguage, len(f.supportedLanguages))
	copy(languages, f.supportedLanguages)
	return languages
}
