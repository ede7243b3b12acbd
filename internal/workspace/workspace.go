package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
)

// DirPerm is the mode for created run directories.
const DirPerm = 0o755

// Manager hands out uniquely-named run directories under a shared temporary
// root. Collisions between concurrent requests are avoided purely by name
// uniqueness; there is no locking.
type Manager struct {
	root string
	log  *slog.Logger
}

// NewManager ensures the temporary root exists and returns a manager for it.
func NewManager(root string, log *slog.Logger) (*Manager, error) {
	if root == "" {
		return nil, fmt.Errorf("workspace root must not be empty")
	}
	if err := os.MkdirAll(root, DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create workspace root: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{root: root, log: log}, nil
}

// Root returns the temporary root directory.
func (m *Manager) Root() string {
	return m.root
}

// NewRunDir creates a fresh uuid-named directory for one request's output.
func (m *Manager) NewRunDir() (string, error) {
	dir := filepath.Join(m.root, uuid.NewString())
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}
	return dir, nil
}

// FirstFile returns the path of the first regular file in dir, in lexical
// order. It fails when the directory holds no files.
func (m *Manager) FirstFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read run directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return "", fmt.Errorf("download produced no output in %s", dir)
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0]), nil
}

// Cleanup removes the given paths recursively. Failures are logged and
// swallowed; cleanup is best effort and never surfaces to the caller.
func (m *Manager) Cleanup(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			m.log.Warn("cleanup failed", "path", p, "error", err)
		}
	}
}
