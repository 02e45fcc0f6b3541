package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ResourceLoader resolves and reads page-relative resource files (§6):
// `@/…` from basePath, `./` or `../` from the owning page's own directory.
type ResourceLoader struct {
	basePath string
	pageDir  string

	mu    sync.Mutex
	cache map[string][]byte
}

// NewResourceLoader builds a loader for one page: basePath is the
// resource tree root ("@/"), pageDir is the directory the compiled page
// file itself lives in ("./", "../").
func NewResourceLoader(basePath, pageDir string) *ResourceLoader {
	return &ResourceLoader{basePath: basePath, pageDir: pageDir, cache: make(map[string][]byte)}
}

// ResolvePath maps name to an absolute filesystem path per §6's prefix
// rules, without touching the filesystem.
func (r *ResourceLoader) ResolvePath(name string) string {
	switch {
	case len(name) >= 2 && name[:2] == "@/":
		return filepath.Join(r.basePath, name[2:])
	default:
		return filepath.Join(r.pageDir, name)
	}
}

// Exists reports whether name resolves to a readable file.
func (r *ResourceLoader) Exists(name string) bool {
	_, err := os.Stat(r.ResolvePath(name))
	return err == nil
}

// GetBytes reads and caches name's raw contents. Resource-not-found (§7)
// is a synchronous error naming every path tried — here, the one resolved
// path, since this loader has no secondary search list.
func (r *ResourceLoader) GetBytes(name string) ([]byte, error) {
	r.mu.Lock()
	if b, ok := r.cache[name]; ok {
		r.mu.Unlock()
		return b, nil
	}
	r.mu.Unlock()

	path := r.ResolvePath(name)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("i18n: resource %q not found (tried %s): %w", name, path, err)
	}

	r.mu.Lock()
	r.cache[name] = b
	r.mu.Unlock()
	return b, nil
}

// GetText is GetBytes decoded as UTF-8 text.
func (r *ResourceLoader) GetText(name string) (string, error) {
	b, err := r.GetBytes(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ClearCache drops every cached resource body, forcing the next GetBytes/
// GetText to re-read from disk.
func (r *ResourceLoader) ClearCache() {
	r.mu.Lock()
	r.cache = make(map[string][]byte)
	r.mu.Unlock()
}
