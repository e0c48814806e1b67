package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// FileStore keeps one text file per (space, table) under
// <root>/spaces/<space>/info_tables/<table>.
type FileStore struct {
	SpaceScope

	root string
	opts options
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed store rooted at root. The root
// directory is created if it does not exist.
func NewFileStore(root, space string, opts ...Option) (*FileStore, error) {
	if root == "" {
		return nil, errors.New("file store root is required")
	}
	if err := validateName("space", space); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create store root %s: %w", root, err)
	}
	return &FileStore{
		SpaceScope: NewSpaceScope(space),
		root:       root,
		opts:       applyOptions(opts),
	}, nil
}

// Root returns the directory the store was opened on.
func (s *FileStore) Root() string {
	return s.root
}

// TablePath returns the file backing table in the effective space.
func (s *FileStore) TablePath(table string) string {
	return filepath.Join(s.root, "spaces", s.EffectiveSpace(), "info_tables", table)
}

func (s *FileStore) Append(ctx context.Context, table, line string) error {
	path, err := s.resolve(table)
	if err != nil {
		return storageErr("append", s.EffectiveSpace(), table, err)
	}
	if err := validateLine(line); err != nil {
		return storageErr("append", s.EffectiveSpace(), table, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return storageErr("append", s.EffectiveSpace(), table, appendLine(path, line))
}

func (s *FileStore) ReadAll(ctx context.Context, table string) (string, error) {
	path, err := s.resolve(table)
	if err != nil {
		return "", storageErr("read", s.EffectiveSpace(), table, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	content, err := readOrCreate(path)
	if err != nil {
		return "", storageErr("read", s.EffectiveSpace(), table, err)
	}
	return content, nil
}

func (s *FileStore) Select(ctx context.Context, table, whereID string) (string, error) {
	content, err := s.ReadAll(ctx, table)
	if err != nil {
		return "", err
	}
	return filterLines(content, whereID, s.opts.match), nil
}

func (s *FileStore) Clear(ctx context.Context, table string) error {
	path, err := s.resolve(table)
	if err != nil {
		return storageErr("clear", s.EffectiveSpace(), table, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		s.opts.logger.Warn("clear on missing table",
			slog.String("space", s.EffectiveSpace()),
			slog.String("table", table))
		return nil
	}
	return storageErr("clear", s.EffectiveSpace(), table, os.Truncate(path, 0))
}

// Close is a no-op; files are opened per operation.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) resolve(table string) (string, error) {
	if err := validateName("space", s.EffectiveSpace()); err != nil {
		return "", err
	}
	if err := validateName("table", table); err != nil {
		return "", err
	}
	return s.TablePath(table), nil
}

// appendLine writes line plus LF at the end of path. If the file does not
// end in LF (a torn write), a separator is written first so the new line
// never fuses with the damaged one.
func appendLine(path, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o640)
	if err != nil {
		return err
	}
	defer f.Close()

	prefix, err := tornPrefix(f)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(prefix + line + "\n"); err != nil {
		return err
	}
	return f.Sync()
}

// tornPrefix returns "\n" when f is non-empty and its last byte is not LF.
func tornPrefix(f *os.File) (string, error) {
	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.Size() == 0 {
		return "", nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if last[0] == '\n' {
		return "", nil
	}
	return "\n", nil
}

// readOrCreate returns the content of path, creating it empty if missing.
func readOrCreate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return "", err
	}
	return "", f.Close()
}
