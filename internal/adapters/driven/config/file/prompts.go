package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/askdesk/internal/core/domain"
	"github.com/custodia-labs/askdesk/internal/core/ports/driven"
	"github.com/custodia-labs/askdesk/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

const promptExt = ".txt"

// builtinPrompts seed the prompt directory and back any prompt whose file is
// missing, unreadable or blank.
var builtinPrompts = map[string]string{
	driven.PromptAnswerSystem: domain.DefaultSystemPrompt,
}

const promptsReadme = `# askdesk prompts

answer_system.txt is the system instruction sent with every question. Edit it
to change how answers are phrased; a running server picks up the change on the
next question. Delete the file to restore the built-in text.

The DEFAULT_SYSTEM_PROMPT environment variable takes precedence over this file.
`

// PromptStore serves prompts from <dir>/<name>.txt. A prompt is re-read when
// its file changes on disk, so edits apply without a restart.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu      sync.Mutex
	entries map[string]promptEntry
}

// promptEntry is a cached prompt and the file state it was read from.
type promptEntry struct {
	text    string
	modTime time.Time
	size    int64
}

// NewPromptStore creates a prompt store rooted at dir, or ~/.askdesk/prompts
// when dir is empty. Nothing touches the disk until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".askdesk", "prompts")
	}
	return &PromptStore{
		dir:     dir,
		entries: make(map[string]promptEntry),
	}, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the named prompt. Built-in prompts never fail: any problem
// with the file yields the built-in text. Unknown names without a file
// return an error wrapping domain.ErrNotFound.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(s.seed)
	builtin, hasBuiltin := builtinPrompts[name]

	if s.seedErr != nil {
		if hasBuiltin {
			return builtin, nil
		}
		return "", fmt.Errorf("prompt directory unavailable: %w", s.seedErr)
	}

	text, err := s.read(name)
	switch {
	case err == nil && text != "":
		return text, nil
	case err == nil:
		logger.Warn("prompt %s is blank, using built-in text", s.path(name))
	case errors.Is(err, fs.ErrNotExist):
		if !hasBuiltin {
			return "", fmt.Errorf("prompt %q: %w", name, domain.ErrNotFound)
		}
	default:
		logger.Warn("reading prompt %s: %v", s.path(name), err)
	}

	if hasBuiltin {
		return builtin, nil
	}
	if err != nil {
		return "", fmt.Errorf("prompt %q: %w", name, err)
	}
	return "", fmt.Errorf("prompt %q is blank", name)
}

// Reload drops every cached prompt.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.entries = make(map[string]promptEntry)
	s.mu.Unlock()
}

// read returns the trimmed file content, from cache while the file's
// modification time and size are unchanged.
func (s *PromptStore) read(name string) (string, error) {
	path := s.path(name)
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	entry, ok := s.entries[name]
	s.mu.Unlock()
	if ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		return entry.text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	entry = promptEntry{
		text:    strings.TrimSpace(string(data)),
		modTime: info.ModTime(),
		size:    info.Size(),
	}

	s.mu.Lock()
	s.entries[name] = entry
	s.mu.Unlock()
	return entry.text, nil
}

// seed creates the directory and writes any missing built-in prompt files
// and the README. Existing files are never overwritten.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	files := map[string]string{"README.md": promptsReadme}
	for name, text := range builtinPrompts {
		files[name+promptExt] = text + "\n"
	}
	for file, content := range files {
		if err := writeIfMissing(filepath.Join(s.dir, file), content); err != nil {
			s.seedErr = err
			return
		}
	}
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+promptExt)
}

func writeIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
