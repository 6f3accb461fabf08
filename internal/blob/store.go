package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// contentTypeSuffix names the sidecar file holding a blob's content type
const contentTypeSuffix = ".content-type"

// Ensure FSStore implements core.BlobInspector at compile time
var _ core.BlobInspector = (*FSStore)(nil)

// FSStore keeps blobs on an afero filesystem rooted at the blob directory
type FSStore struct {
	fs afero.Fs

	// commitMu makes the exists check and the final rename one step
	commitMu sync.Mutex
}

// NewFSStore creates a store jailed to root on the OS filesystem
func NewFSStore(root string) (*FSStore, error) {
	if root == "" {
		return nil, errors.New("blob storage root is required")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create blob storage root: %w", err)
	}
	return NewFSStoreWithFs(afero.NewBasePathFs(afero.NewOsFs(), root)), nil
}

// NewFSStoreWithFs wraps an existing filesystem (tests use afero.NewMemMapFs)
func NewFSStoreWithFs(fs afero.Fs) *FSStore {
	return &FSStore{fs: fs}
}

// Put streams r into path, refusing bodies larger than maxSize bytes when
// maxSize is positive. The blob appears atomically once fully written, and a
// path that already holds a blob is never overwritten (ErrBlobExists).
func (s *FSStore) Put(
	ctx context.Context,
	p, contentType string,
	r io.Reader,
	maxSize int64,
) (int64, error) {
	clean, err := CleanPath(p)
	if err != nil {
		return 0, err
	}
	if err := s.fs.MkdirAll(path.Dir(clean), 0o750); err != nil {
		return 0, fmt.Errorf("failed to create blob directory: %w", err)
	}

	tmp := clean + ".upload-" + uuid.New().String()
	f, err := s.fs.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("failed to create blob: %w", err)
	}

	src := r
	if maxSize > 0 {
		src = io.LimitReader(r, maxSize+1)
	}
	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		_ = s.fs.Remove(tmp)
		return 0, fmt.Errorf("failed to write blob: %w", copyErr)
	case closeErr != nil:
		_ = s.fs.Remove(tmp)
		return 0, fmt.Errorf("failed to write blob: %w", closeErr)
	case maxSize > 0 && n > maxSize:
		_ = s.fs.Remove(tmp)
		return 0, ErrBlobTooLarge
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	if _, err := s.fs.Stat(clean); err == nil {
		_ = s.fs.Remove(tmp)
		return 0, ErrBlobExists
	} else if !os.IsNotExist(err) {
		_ = s.fs.Remove(tmp)
		return 0, fmt.Errorf("failed to stat blob: %w", err)
	}

	if contentType != "" {
		if err := afero.WriteFile(s.fs, clean+contentTypeSuffix, []byte(contentType), 0o640); err != nil {
			_ = s.fs.Remove(tmp)
			return 0, fmt.Errorf("failed to write blob content type: %w", err)
		}
	}
	if err := s.fs.Rename(tmp, clean); err != nil {
		_ = s.fs.Remove(tmp)
		return 0, fmt.Errorf("failed to commit blob: %w", err)
	}
	return n, nil
}

// Open returns a reader for the blob at path together with its metadata
func (s *FSStore) Open(ctx context.Context, p string) (afero.File, *core.BlobInfo, error) {
	info, err := s.Stat(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.fs.Open(info.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open blob: %w", err)
	}
	return f, info, nil
}

// Stat reports whether a fully written blob exists at path
func (s *FSStore) Stat(ctx context.Context, p string) (*core.BlobInfo, error) {
	clean, err := CleanPath(p)
	if err != nil {
		return nil, err
	}
	fi, err := s.fs.Stat(clean)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to stat blob: %w", err)
	}
	if fi.IsDir() {
		return nil, ErrBlobNotFound
	}

	contentType := ""
	if b, err := afero.ReadFile(s.fs, clean+contentTypeSuffix); err == nil {
		contentType = strings.TrimSpace(string(b))
	}

	return &core.BlobInfo{
		Path:        clean,
		Size:        fi.Size(),
		ContentType: contentType,
		ModTime:     fi.ModTime(),
	}, nil
}

// Remove deletes the blob and its sidecar; a missing blob is not an error
func (s *FSStore) Remove(ctx context.Context, p string) error {
	clean, err := CleanPath(p)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(clean); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove blob: %w", err)
	}
	if err := s.fs.Remove(clean + contentTypeSuffix); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove blob content type: %w", err)
	}
	return nil
}
