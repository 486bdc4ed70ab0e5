package connectivity

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// FileSource читает состояние сети из файла статуса (например, его пишет
// dispatcher-скрипт NetworkManager) и передает его в Monitor.
// Содержимое файла: "online" или "offline". Отсутствующий файл означает offline.
type FileSource struct {
	monitor *Monitor
	logger  *slog.Logger
	path    string
}

// NewFileSource creates a FileSource for path feeding monitor
func NewFileSource(path string, monitor *Monitor, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{path: path, monitor: monitor, logger: logger}
}

// ParseStatus разбирает содержимое файла статуса
func ParseStatus(content string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(content)) {
	case "online", "up", "connected", "1", "true":
		return true, nil
	case "offline", "down", "disconnected", "0", "false", "":
		return false, nil
	default:
		return false, fmt.Errorf("unknown connectivity status %q", strings.TrimSpace(content))
	}
}

// Run наблюдает за файлом до отмены ctx.
// Следим за каталогом, а не за файлом: скрипты обычно заменяют файл через rename.
func (s *FileSource) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	s.refresh()

	name := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.refresh()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("Connectivity watcher error", "path", s.path, "error", err)
		}
	}
}

func (s *FileSource) refresh() {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.monitor.Set(false)
			return
		}
		s.logger.Warn("Failed to read connectivity status file", "path", s.path, "error", err)
		return
	}

	online, err := ParseStatus(string(content))
	if err != nil {
		s.logger.Warn("Ignoring connectivity status", "path", s.path, "error", err)
		return
	}
	s.monitor.Set(online)
}
