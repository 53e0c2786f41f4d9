package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Adapter loads translations from a storage backend.
type Adapter interface {
	Load(ctx context.Context) (Translations, error)
}

// MapAdapter serves translations kept in memory.
type MapAdapter Translations

// Load implements Adapter. The returned tree is a copy.
func (a MapAdapter) Load(_ context.Context) (Translations, error) {
	out := make(Translations, len(a))
	for lang, tree := range a {
		out[normalizeLang(lang)] = copyTree(tree)
	}
	return out, nil
}

// FileAdapter reads a single JSON or YAML document holding every language.
type FileAdapter struct {
	Path string
	// Parser overrides detection by file extension.
	Parser Parser
}

// NewFileAdapter returns an adapter for the document at path.
func NewFileAdapter(path string) *FileAdapter {
	return &FileAdapter{Path: path}
}

// Load implements Adapter.
func (a *FileAdapter) Load(ctx context.Context) (Translations, error) {
	dir, name := splitPath(a.Path)
	return loadFile(ctx, os.DirFS(dir), name, a.Parser)
}

// DirectoryAdapter reads every .json, .yaml and .yml file under a directory tree.
// Files are loaded in lexical path order and merged; later files override earlier keys.
type DirectoryAdapter struct {
	FS  fs.FS
	Dir string
}

// NewDirectoryAdapter reads translations from a directory on disk.
func NewDirectoryAdapter(dir string) *DirectoryAdapter {
	return &DirectoryAdapter{FS: os.DirFS(dir), Dir: "."}
}

// NewFSAdapter reads translations from dir inside fsys, e.g. an embed.FS.
func NewFSAdapter(fsys fs.FS, dir string) *DirectoryAdapter {
	if dir == "" {
		dir = "."
	}
	return &DirectoryAdapter{FS: fsys, Dir: dir}
}

// Load implements Adapter.
func (a *DirectoryAdapter) Load(ctx context.Context) (Translations, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}

	var files []string
	err := fs.WalkDir(a.FS, a.Dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, perr := ParserForFile(p); perr == nil {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrFailedToReadDirectory, err)
	}
	sort.Strings(files)

	out := make(Translations)
	for _, p := range files {
		t, err := loadFile(ctx, a.FS, p, nil)
		if err != nil {
			return nil, err
		}
		merge(out, t)
	}
	return out, nil
}

func loadFile(ctx context.Context, fsys fs.FS, name string, parser Parser) (Translations, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}
	if parser == nil {
		var err error
		if parser, err = ParserForFile(name); err != nil {
			return nil, err
		}
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	t, err := parser.Parse(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}

func splitPath(p string) (string, string) {
	dir, name := filepath.Split(p)
	if dir == "" {
		dir = "."
	}
	return dir, name
}

func copyTree(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			out[k] = copyTree(sub)
			continue
		}
		out[k] = v
	}
	return out
}
