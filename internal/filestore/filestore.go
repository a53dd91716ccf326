package filestore

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("blob not found")

// Store persists raw document bytes under a configured root directory.
// It does not deduplicate; identical content saved twice yields two blobs.
// Dedup happens one level up, keyed by the content fingerprint.
type Store struct {
	fs     afero.Fs
	root   string
	logger *zap.Logger
}

func NewStore(logger *zap.Logger, root string) Store {
	return newStoreWithFs(logger, root, afero.NewOsFs())
}

func newStoreWithFs(logger *zap.Logger, root string, fs afero.Fs) Store {
	return Store{
		fs:     fs,
		root:   root,
		logger: logger,
	}
}

// Save writes content to a new file under the store root and returns its
// path. The filename combines a timestamp with a random suffix to avoid
// collisions between concurrent writes.
func (s Store) Save(content []byte) (string, error) {
	if err := s.fs.MkdirAll(s.root, 0o755); err != nil {
		return "", errors.New("failed to create the storage root: " + err.Error())
	}

	filename := fmt.Sprintf("doc_%d_%s.bin", time.Now().UnixMilli(), randomSuffix())
	path := filepath.Join(s.root, filename)

	if err := afero.WriteFile(s.fs, path, content, 0o644); err != nil {
		return "", errors.New("failed to write the blob: " + err.Error())
	}

	s.logger.Debug("blob saved", zap.String("path", path), zap.Int("size", len(content)))
	return path, nil
}

// Load reads the blob back. A missing file maps to ErrNotFound so that
// callers can turn it into a not-found response instead of a server error.
func (s Store) Load(path string) ([]byte, error) {
	content, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.New("failed to read the blob: " + err.Error())
	}

	return content, nil
}

// Remove deletes a blob. Used as the compensating step when registration
// aborts after the blob write; removing an already absent blob is not an
// error.
func (s Store) Remove(path string) error {
	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.New("failed to remove the blob: " + err.Error())
	}

	return nil
}

func randomSuffix() string {
	return strconv.FormatInt(rand.Int63(), 36)
}
