package mermaid

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	log "github.com/sirupsen/logrus"
)

// createTempFile creates a uniquely named file in the system temp directory,
// writes content into it when given, and returns the path together with a
// cleanup func. Cleanup is idempotent: removing an already-deleted file is
// not an error, so it is safe to defer unconditionally even when an external
// tool may have consumed the file.
//
// On error the partially created file has already been removed and no
// cleanup func is returned.
func createTempFile(pattern string, content []byte) (string, func(), error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()

	cleanup := func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.WithError(err).WithField("path", path).Warn("failed to remove temp file")
		}
	}

	if len(content) > 0 {
		if _, err := f.Write(content); err != nil {
			f.Close()
			cleanup()
			return "", nil, fmt.Errorf("failed to write temp file: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	return path, cleanup, nil
}
