package i18n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Translations maps a language code to its translation tree. Leaves are strings,
// inner nodes are namespaces or nested key segments.
type Translations map[string]map[string]any

// Parser decodes one translation document.
type Parser interface {
	Parse(ctx context.Context, data []byte) (Translations, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(ctx context.Context, data []byte) (Translations, error)

// Parse implements Parser.
func (f ParserFunc) Parse(ctx context.Context, data []byte) (Translations, error) {
	return f(ctx, data)
}

// JSONParser decodes {"<lang>": {...}} documents.
var JSONParser = ParserFunc(func(ctx context.Context, data []byte) (Translations, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}
	return fromDocument(doc, ErrFailedToParseJSON)
})

// YAMLParser decodes documents with one top-level mapping per language.
var YAMLParser = ParserFunc(func(ctx context.Context, data []byte) (Translations, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	return fromDocument(doc, ErrFailedToParseYAML)
})

// ParserForFile picks a parser by file extension.
func ParserForFile(name string) (Parser, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "json":
		return JSONParser, nil
	case "yaml", "yml":
		return YAMLParser, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

func fromDocument(doc map[string]any, kind error) (Translations, error) {
	out := make(Translations, len(doc))
	for lang, tree := range doc {
		m, ok := normalizeTree(tree).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: language %q must map to an object, got %T", kind, lang, tree)
		}
		out[normalizeLang(lang)] = m
	}
	return out, nil
}

// normalizeTree turns map[any]any nodes into map[string]any.
func normalizeTree(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeTree(item)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalizeTree(item)
		}
		return out
	}
	return v
}

// merge copies src into dst, descending into nested trees so that later
// documents only override the keys they define.
func merge(dst, src Translations) {
	for lang, tree := range src {
		if dst[lang] == nil {
			dst[lang] = make(map[string]any, len(tree))
		}
		mergeTree(dst[lang], tree)
	}
}

func mergeTree(dst, src map[string]any) {
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		existing, ok := dst[k].(map[string]any)
		if !ok {
			existing = make(map[string]any, len(sub))
			dst[k] = existing
		}
		mergeTree(existing, sub)
	}
}
