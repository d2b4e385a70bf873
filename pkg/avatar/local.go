package avatar

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// LocalStore implements Store on the local filesystem. Intended for
// development; production deployments use S3Store.
type LocalStore struct {
	dir string
}

// NewLocalStore creates a store writing under dir, creating it if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, ErrInvalidConfig
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

var unsafePathChars = regexp.MustCompile(`[^0-9a-zA-Z_.@-]`)

func (s *LocalStore) Set(ctx context.Context, accountID string, image []byte) error {
	name := unsafePathChars.ReplaceAllString(accountID, "_")
	if name == "" || name == "." || name == ".." {
		return ErrInvalidConfig
	}
	path := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, name+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp avatar file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(image); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write avatar file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close avatar file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace avatar file: %w", err)
	}
	return nil
}

// Compile-time interface assertion
var _ Store = (*LocalStore)(nil)
