package builtin

import _ "embed"

// Scripts shipped with hostkit. Each one drives the support module against
// the context the CLI provides: player, player_name and players.

//go:embed welcome.tengo
var WelcomeScript string

//go:embed countdown.tengo
var CountdownScript string

//go:embed armor.lua
var ArmorScript string

// Provider serves the built-in scripts to a script registry.
type Provider struct{}

// GetEmbeddedScripts returns the built-in scripts keyed by filename.
func (Provider) GetEmbeddedScripts() map[string]string {
	return map[string]string{
		"welcome.tengo":   WelcomeScript,
		"countdown.tengo": CountdownScript,
		"armor.lua":       ArmorScript,
	}
}
