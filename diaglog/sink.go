// Package diaglog appends free-text diagnostic lines sent by clients to a
// local file.
package diaglog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"prompt-db/logging"
)

// Sink appends newline-delimited lines to a file. Write failures are logged
// and otherwise ignored; callers never see them.
type Sink struct {
	mu      sync.Mutex
	path    string
	enabled bool
	log     *logging.Logger
}

func New(path string, enabled bool, log *logging.Logger) *Sink {
	return &Sink{
		path:    path,
		enabled: enabled && path != "",
		log:     logging.OrNop(log).With("diag_log", path),
	}
}

func (s *Sink) Enabled() bool {
	return s.enabled
}

func (s *Sink) Path() string {
	return s.path
}

// Append writes msg followed by a newline. A trailing newline already in
// msg is not doubled. The file is reopened on every call.
func (s *Sink) Append(msg string) {
	if !s.enabled {
		return
	}
	line := strings.TrimRight(msg, "\r\n") + "\n"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.log.Warn("diagnostic log unavailable", "error", err)
		return
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		s.log.Warn("diagnostic log unavailable", "error", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		s.log.Warn("diagnostic log write failed", "error", err)
	}
}
