package script

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// EmbeddedScriptProvider supplies scripts compiled into the binary.
type EmbeddedScriptProvider interface {
	// GetEmbeddedScripts returns script filenames, extension included, mapped
	// to their content.
	GetEmbeddedScripts() map[string]string
}

// ScriptMetadata contains metadata about a script without the content
type ScriptMetadata struct {
	Name         string
	Language     ScriptLanguage
	Source       ScriptSource
	LastModified time.Time
	Checksum     string
	Size         int
}

// Registry holds the loaded scripts by name. A file in the scripts directory
// overrides the embedded script of the same name until it is removed.
type Registry struct {
	mu            sync.RWMutex
	fs            afero.Fs
	dir           string
	scripts       map[string]*Script
	embedded      map[string]*Script
	watcher       *fsnotify.Watcher
	watcherActive bool
	listeners     []func(name string)
}

// NewRegistry creates a registry reading external scripts from dir on fs.
func NewRegistry(fs afero.Fs, dir string) *Registry {
	return &Registry{
		fs:       fs,
		dir:      dir,
		scripts:  make(map[string]*Script),
		embedded: make(map[string]*Script),
	}
}

// Dir returns the external scripts directory.
func (r *Registry) Dir() string {
	return r.dir
}

// RegisterEmbeddedProvider loads every script the provider offers. Loaded
// external scripts keep precedence.
func (r *Registry) RegisterEmbeddedProvider(provider EmbeddedScriptProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for filename, content := range provider.GetEmbeddedScripts() {
		language, ok := LanguageForFile(filename)
		if !ok {
			slog.Warn("Skipping embedded file with unknown extension", "file", filename)
			continue
		}
		script := &Script{
			Name:         scriptName(filename),
			Language:     language,
			Content:      content,
			Source:       SourceEmbedded,
			LastModified: time.Now(),
			Checksum:     generateChecksum(content),
		}
		r.embedded[script.Name] = script

		if existing, exists := r.scripts[script.Name]; exists && existing.Source == SourceExternal {
			slog.Debug("Skipping embedded script - external version already loaded", "script", script.Name)
			continue
		}
		r.scripts[script.Name] = script
		LogLifecycle(slog.LevelDebug, "Loaded embedded script", script.Name,
			slog.String("language", string(language)),
			slog.Int("size", len(content)),
		)
	}
}

// LoadScripts loads every script file in the scripts directory. A missing
// directory is not an error.
func (r *Registry) LoadScripts() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	exists, err := afero.DirExists(r.fs, r.dir)
	if err != nil {
		return fmt.Errorf("failed to stat scripts directory %s: %w", r.dir, err)
	}
	if !exists {
		slog.Debug("Scripts directory does not exist", "path", r.dir)
		return nil
	}

	entries, err := afero.ReadDir(r.fs, r.dir)
	if err != nil {
		return fmt.Errorf("failed to read scripts directory %s: %w", r.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := LanguageForFile(entry.Name()); !ok {
			continue
		}
		script, err := r.readExternal(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			slog.Error("Failed to read external script", "path", entry.Name(), "error", err)
			continue
		}
		r.scripts[script.Name] = script
		LogLifecycle(slog.LevelDebug, "Loaded external script", script.Name,
			slog.String("language", string(script.Language)),
			slog.Int("size", len(script.Content)),
		)
	}
	return nil
}

// GetScript retrieves a script by name
func (r *Registry) GetScript(name string) (*Script, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if script, exists := r.scripts[name]; exists {
		return script, nil
	}
	return nil, NewScriptError(ErrorTypeNotFound, name, "script not found", nil)
}

// ReloadScript rereads a script from the scripts directory, falling back to
// the embedded version, or forgetting the script, when no file remains.
func (r *Registry) ReloadScript(name string) error {
	_, err := r.reload(name)
	return err
}

func (r *Registry) reload(name string) (changed bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.scripts[name]

	var next *Script
	for _, language := range []ScriptLanguage{LanguageTengo, LanguageLua} {
		path := filepath.Join(r.dir, name+language.Extension())
		if exists, _ := afero.Exists(r.fs, path); !exists {
			continue
		}
		next, err = r.readExternal(path)
		if err != nil {
			return false, err
		}
		break
	}
	if next == nil {
		next = r.embedded[name]
	}

	switch {
	case next == nil && previous == nil:
		return false, nil
	case next == nil:
		delete(r.scripts, name)
		LogLifecycle(slog.LevelInfo, "Script removed", name)
		return true, nil
	case previous != nil && previous.Checksum == next.Checksum && previous.Source == next.Source:
		return false, nil
	}

	r.scripts[name] = next
	LogLifecycle(slog.LevelInfo, "Reloaded script", name,
		slog.String("language", string(next.Language)),
		slog.String("source", string(next.Source)),
	)
	return true, nil
}

// ListScripts returns all script names, sorted
func (r *Registry) ListScripts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.scripts))
	for name := range r.scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetScriptMetadata returns metadata about all loaded scripts, sorted by name
func (r *Registry) GetScriptMetadata() []ScriptMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ScriptMetadata, 0, len(r.scripts))
	for _, script := range r.scripts {
		result = append(result, ScriptMetadata{
			Name:         script.Name,
			Language:     script.Language,
			Source:       script.Source,
			LastModified: script.LastModified,
			Checksum:     script.Checksum,
			Size:         len(script.Content),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// OnChange registers fn to be called with a script's name after a hot reload
// changed or removed it.
func (r *Registry) OnChange(fn func(name string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// ExtractEmbedded writes embedded scripts into the scripts directory, leaving
// existing files alone. It returns how many files were written.
func (r *Registry) ExtractEmbedded() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.fs.MkdirAll(r.dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create scripts directory %s: %w", r.dir, err)
	}

	extracted := 0
	for _, script := range r.embedded {
		path := filepath.Join(r.dir, script.Filename())
		if exists, _ := afero.Exists(r.fs, path); exists {
			slog.Debug("Skipping existing file", "file", path)
			continue
		}
		if err := afero.WriteFile(r.fs, path, []byte(script.Content), 0o644); err != nil {
			return extracted, fmt.Errorf("failed to write script file %s: %w", path, err)
		}
		extracted++
		slog.Debug("Extracted script", "file", path, "language", script.Language)
	}
	return extracted, nil
}

// StartWatcher begins monitoring the scripts directory for changes. Watching
// needs the OS filesystem; on any other afero backend it is a no-op.
func (r *Registry) StartWatcher(ctx context.Context, enableHotReload bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !enableHotReload {
		slog.Info("Hot-reload disabled, skipping file system watcher setup")
		return nil
	}
	if r.watcherActive {
		slog.Debug("Script watcher already active")
		return nil
	}
	if _, ok := r.fs.(*afero.OsFs); !ok {
		slog.Debug("Scripts filesystem is not the OS filesystem, skipping watcher setup")
		return nil
	}
	if _, err := os.Stat(r.dir); os.IsNotExist(err) {
		slog.Debug("Scripts directory does not exist, skipping watcher setup", "path", r.dir)
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file system watcher: %w", err)
	}
	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", r.dir, err)
	}

	r.watcher = watcher
	r.watcherActive = true
	go r.watchFiles(ctx, watcher)

	slog.Debug("Started file system watcher for script hot-reloading", "directory", r.dir)
	return nil
}

// watchFiles handles file system events
func (r *Registry) watchFiles(ctx context.Context, watcher *fsnotify.Watcher) {
	defer func() {
		r.mu.Lock()
		if r.watcher == watcher {
			r.watcher.Close()
			r.watcher = nil
			r.watcherActive = false
		}
		r.mu.Unlock()
		slog.Info("File system watcher stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			r.handleFileEvent(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File system watcher error", "error", err)
		}
	}
}

// handleFileEvent reloads the script behind any event on a script file.
// Editors save in many ways (write, truncate, rename over); rereading the
// directory covers all of them.
func (r *Registry) handleFileEvent(event fsnotify.Event) {
	if _, ok := LanguageForFile(event.Name); !ok {
		return
	}
	if event.Op == fsnotify.Chmod {
		return
	}
	name := scriptName(event.Name)

	changed, err := r.reload(name)
	LogHotReloadEvent(event.Op.String(), name, event.Name, err == nil, err)
	if err != nil || !changed {
		return
	}

	r.mu.RLock()
	listeners := append([]func(string){}, r.listeners...)
	r.mu.RUnlock()
	for _, fn := range listeners {
		fn(name)
	}
}

// StopWatcher stops the file system watcher
func (r *Registry) StopWatcher() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.watcher != nil {
		r.watcher.Close()
		r.watcher = nil
		r.watcherActive = false
	}
}

func (r *Registry) readExternal(path string) (*Script, error) {
	language, ok := LanguageForFile(path)
	if !ok {
		return nil, fmt.Errorf("not a script file: %s", path)
	}
	info, err := r.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	content, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, err
	}
	return &Script{
		Name:         scriptName(path),
		Language:     language,
		Content:      string(content),
		Source:       SourceExternal,
		LastModified: info.ModTime(),
		Checksum:     generateChecksum(string(content)),
	}, nil
}

func scriptName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// generateChecksum creates a checksum for script content
func generateChecksum(content string) string {
	hash := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", hash)
}
