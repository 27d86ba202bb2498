package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_CreateEngine(t *testing.T) {
	factory := NewFactory(nil)

	engine, err := factory.CreateEngine(LanguageTengo)
	require.NoError(t, err)
	assert.IsType(t, &TengoEngine{}, engine)

	engine, err = factory.CreateEngine(LanguageLua)
	require.NoError(t, err)
	assert.IsType(t, &LuaEngine{}, engine)

	_, err = factory.CreateEngine("python")
	assert.EqualError(t, err, "unsupported script language: python")
}

func TestFactory_SupportedLanguagesIsACopy(t *testing.T) {
	factory := NewFactory(nil)
	languages := factory.SupportedLanguages()
	languages[0] = "changed"
	assert.Equal(t, []ScriptLanguage{LanguageTengo, LanguageLua}, factory.SupportedLanguages())
}

func TestLanguageForFile(t *testing.T) {
	language, ok := LanguageForFile("scripts/Greet.TENGO")
	assert.True(t, ok)
	assert.Equal(t, LanguageTengo, language)

	language, ok = LanguageForFile("armor.lua")
	assert.True(t, ok)
	assert.Equal(t, LanguageLua, language)

	_, ok = LanguageForFile("notes.txt")
	assert.False(t, ok)
}

func TestScriptError_Unwrap(t *testing.T) {
	cause := assert.AnError
	err := NewScriptError(ErrorTypeExecution, "greet", "script execution failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "greet: script execution failed: "+cause.Error(), err.Error())
}
