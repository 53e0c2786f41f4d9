package form

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/sieve/pkg/validator"
)

// Source loads named form schemas.
type Source interface {
	Load(ctx context.Context) (map[string]validator.Schema, error)
}

// MapSource serves schemas defined in code.
type MapSource map[string]validator.Schema

// Load implements Source.
func (s MapSource) Load(_ context.Context) (map[string]validator.Schema, error) {
	out := make(map[string]validator.Schema, len(s))
	for name, schema := range s {
		out[name] = schema
	}
	return out, nil
}

// FileSource reads one YAML or JSON document with a top-level "forms" mapping:
//
//	forms:
//	  signup:
//	    email: {rules: {required: true, email: true}}
type FileSource struct {
	Path string
}

type formsDocument struct {
	Forms map[string]validator.Schema `yaml:"forms"`
}

// Load implements Source.
func (s FileSource) Load(ctx context.Context) (map[string]validator.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadSource, err)
	}
	forms, err := ParseForms(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return forms, nil
}

// ParseForms decodes a document with a top-level "forms" mapping.
func ParseForms(data []byte) (map[string]validator.Schema, error) {
	var doc formsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrInvalidFormsFile, err)
	}
	if doc.Forms == nil {
		return nil, fmt.Errorf("%w: missing forms mapping", ErrInvalidFormsFile)
	}
	return doc.Forms, nil
}

// DirectorySource treats every .yaml, .yml or .json file in a directory as one
// form named after the file.
type DirectorySource struct {
	FS  fs.FS
	Dir string
}

// NewDirectorySource reads forms from a directory on disk.
func NewDirectorySource(dir string) DirectorySource {
	return DirectorySource{FS: os.DirFS(dir), Dir: "."}
}

// Load implements Source.
func (s DirectorySource) Load(ctx context.Context) (map[string]validator.Schema, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	entries, err := fs.ReadDir(s.FS, dir)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadSource, err)
	}

	out := make(map[string]validator.Schema, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() {
			continue
		}
		ext := path.Ext(e.Name())
		switch strings.ToLower(ext) {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}

		data, err := fs.ReadFile(s.FS, path.Join(dir, e.Name()))
		if err != nil {
			return nil, errors.Join(ErrFailedToReadSource, err)
		}
		schema, err := validator.ParseSchema(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		out[strings.TrimSuffix(e.Name(), ext)] = schema
	}
	return out, nil
}

// DefaultRedisKey is the hash that RedisSource reads when no key is set.
const DefaultRedisKey = "sieve:forms"

// RedisSource reads forms from a Redis hash: each field is a form name and
// its value a YAML or JSON schema document.
type RedisSource struct {
	Client redis.UniversalClient
	Key    string
}

// NewRedisSource returns a source backed by the given hash key.
func NewRedisSource(client redis.UniversalClient, key string) RedisSource {
	if key == "" {
		key = DefaultRedisKey
	}
	return RedisSource{Client: client, Key: key}
}

// Load implements Source.
func (s RedisSource) Load(ctx context.Context) (map[string]validator.Schema, error) {
	raw, err := s.Client.HGetAll(ctx, s.key()).Result()
	if err != nil {
		return nil, errors.Join(ErrFailedToReadSource, err)
	}
	out := make(map[string]validator.Schema, len(raw))
	for name, doc := range raw {
		schema, err := validator.ParseSchema([]byte(doc))
		if err != nil {
			return nil, fmt.Errorf("redis form %q: %w", name, err)
		}
		out[name] = schema
	}
	return out, nil
}

// Put stores a schema document under name. The document is parsed first so
// that a broken schema never reaches the hash.
func (s RedisSource) Put(ctx context.Context, name string, doc []byte) error {
	if name == "" {
		return ErrEmptyFormName
	}
	if _, err := validator.ParseSchema(doc); err != nil {
		return err
	}
	return s.Client.HSet(ctx, s.key(), name, string(doc)).Err()
}

// Delete removes a form from the hash.
func (s RedisSource) Delete(ctx context.Context, name string) error {
	return s.Client.HDel(ctx, s.key(), name).Err()
}

func (s RedisSource) key() string {
	if s.Key == "" {
		return DefaultRedisKey
	}
	return s.Key
}
