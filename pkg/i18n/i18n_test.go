package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPack_TranslateFallsBackThenToKey(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yaml"), []byte("greeting: Hello\nmissing_key_falls_back: Hello\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fr.yaml"), []byte("greeting: Bonjour\n"), 0o600))

	p := NewPack("en")
	require.NoError(t, p.LoadDir(dir))

	assert.Equal(t, "Bonjour", p.Translate("fr", "greeting"))
	assert.Equal(t, "Hello", p.Translate("fr", "missing_key_falls_back"))
	assert.Equal(t, "truly.missing", p.Translate("fr", "truly.missing"))
}

func TestPack_Localizer(t *testing.T) {
	p := NewPack("en")
	p.byLang["en"] = map[string]string{"hi": "Hi"}
	fn := p.Localizer("en")
	assert.Equal(t, "Hi", fn("hi"))
}

func TestResourceLoader_ResolvesPrefixes(t *testing.T) {
	dir := t.TempDir()
	pageDir := filepath.Join(dir, "pages", "home")
	require.NoError(t, os.MkdirAll(pageDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shared.txt"), []byte("shared"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(pageDir, "local.txt"), []byte("local"), 0o600))

	loader := NewResourceLoader(dir, pageDir)

	text, err := loader.GetText("@/shared.txt")
	require.NoError(t, err)
	assert.Equal(t, "shared", text)

	text, err = loader.GetText("./local.txt")
	require.NoError(t, err)
	assert.Equal(t, "local", text)

	assert.True(t, loader.Exists("@/shared.txt"))
	assert.False(t, loader.Exists("@/nope.txt"))
}

func TestResourceLoader_NotFoundNamesThePath(t *testing.T) {
	base := t.TempDir()
	loader := NewResourceLoader(base, t.TempDir())
	_, err := loader.GetText("@/missing.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), filepath.Join(base, "missing.txt"))
}

func TestResourceLoader_ClearCacheForcesReread(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))
	loader := NewResourceLoader(dir, dir)

	v1, err := loader.GetText("@/f.txt")
	require.NoError(t, err)
	assert.Equal(t, "v1", v1)

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o600))
	v1again, _ := loader.GetText("@/f.txt")
	assert.Equal(t, "v1", v1again, "cached value served until ClearCache")

	loader.ClearCache()
	v2, err := loader.GetText("@/f.txt")
	require.NoError(t, err)
	assert.Equal(t, "v2", v2)
}
