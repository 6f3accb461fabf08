package transfer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Saver stores downloaded bytes under a file name
type Saver interface {
	Save(ctx context.Context, name string, r io.Reader) (int64, error)
}

// Opener hands a direct link to something that can fetch it on its own,
// such as a browser
type Opener interface {
	Open(ctx context.Context, url string) error
}

// OpenerFunc adapts a function to Opener
type OpenerFunc func(ctx context.Context, url string) error

func (f OpenerFunc) Open(ctx context.Context, url string) error {
	return f(ctx, url)
}

// PrintOpener writes the link for the user to open
type PrintOpener struct {
	W io.Writer
}

func (o PrintOpener) Open(_ context.Context, url string) error {
	_, err := fmt.Fprintf(o.W, "Open this link to download the file: %s\n", url)
	return err
}

// FileSaver writes downloads into a directory. A partial download never
// replaces an existing file.
type FileSaver struct {
	fs  afero.Fs
	dir string
}

// NewFileSaver saves into dir on fs
func NewFileSaver(fs afero.Fs, dir string) *FileSaver {
	if dir == "" {
		dir = "."
	}
	return &FileSaver{fs: fs, dir: dir}
}

// Save copies r to dir/base(name)
func (s *FileSaver) Save(ctx context.Context, name string, r io.Reader) (int64, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == ".." || base == "" {
		return 0, fmt.Errorf("invalid file name %q", name)
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, s.dir, ".download-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, &contextReader{ctx: ctx, r: r})
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(tmpName)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	if err := s.fs.Rename(tmpName, filepath.Join(s.dir, base)); err != nil {
		_ = s.fs.Remove(tmpName)
		return 0, fmt.Errorf("failed to save file: %w", err)
	}
	return n, nil
}

// contextReader stops a copy once ctx is done
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
