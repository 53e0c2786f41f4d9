package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/dmitrymomot/sieve/pkg/sanitizer"
)

const (
	// DefaultMaxJSONSize caps JSON request bodies.
	DefaultMaxJSONSize = 1 << 20
	// DefaultMaxMemory is the multipart memory budget; larger parts spill to disk.
	DefaultMaxMemory = 10 << 20
)

// Files holds uploads keyed by dotted field path. A field receives a
// *multipart.FileHeader, or []any of them when several files share the name.
type Files map[string]any

// UploadedFile implements validator.UploadLookup.
func (f Files) UploadedFile(field string) (any, bool) {
	v, ok := f[field]
	return v, ok
}

// Extract builds the input object of a request. See the package documentation
// for the merge order.
func Extract(r *http.Request) (map[string]any, Files, error) {
	obj := make(map[string]any)
	files := make(Files)

	var (
		values  map[string][]string
		uploads map[string][]*multipart.FileHeader
	)

	contentType := r.Header.Get("Content-Type")
	mediaType, params, err := parseContentType(contentType)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
	}

	switch {
	case mediaType == "":
		if r.Body != nil && r.ContentLength > 0 {
			return nil, nil, fmt.Errorf("%w: missing content type", ErrUnsupportedMediaType)
		}

	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		body, err := decodeJSON(r.Body)
		if err != nil {
			return nil, nil, err
		}
		maps.Copy(obj, body)

	case mediaType == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}
		values = r.PostForm

	case mediaType == "multipart/form-data":
		if !validBoundary(params["boundary"]) {
			return nil, nil, fmt.Errorf("%w: invalid multipart boundary", ErrInvalidForm)
		}
		if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}
		if r.MultipartForm != nil {
			values = r.MultipartForm.Value
			uploads = r.MultipartForm.File
		}

	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}

	for _, name := range slices.Sorted(maps.Keys(uploads)) {
		headers := uploads[name]
		items := make([]any, len(headers))
		for i, fh := range headers {
			fh.Filename = sanitizer.SanitizeFilename(fh.Filename)
			items[i] = fh
		}
		path, v := setField(obj, name, items)
		files[path] = v
	}

	for _, name := range slices.Sorted(maps.Keys(values)) {
		setField(obj, name, toAny(values[name]))
	}

	query, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFailedToParseQuery, err)
	}
	for _, name := range slices.Sorted(maps.Keys(query)) {
		setField(obj, name, toAny(query[name]))
	}

	return obj, files, nil
}

func parseContentType(ct string) (string, map[string]string, error) {
	if strings.TrimSpace(ct) == "" {
		return "", nil, nil
	}
	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", nil, err
	}
	return strings.ToLower(mediaType), params, nil
}

func decodeJSON(body io.Reader) (map[string]any, error) {
	if body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(body, DefaultMaxJSONSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFailedToParseJSON, err)
	}
	if len(data) > DefaultMaxJSONSize {
		return nil, fmt.Errorf("%w: request body too large (max %d bytes)", ErrFailedToParseJSON, DefaultMaxJSONSize)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
	}
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON value", ErrFailedToParseJSON)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: body must be a JSON object, got %T", ErrFailedToParseJSON, v)
	}
	return obj, nil
}

// validBoundary follows RFC 2046: 1 to 70 characters from a restricted set,
// not ending in a space.
func validBoundary(b string) bool {
	if len(b) == 0 || len(b) > 70 || strings.HasSuffix(b, " ") {
		return false
	}
	for _, r := range b {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("'()+_,-./:=? ", r):
		default:
			return false
		}
	}
	return true
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// setField stores items under a possibly bracketed name and returns the dotted
// path and the stored value. A single item is stored as a scalar unless the
// name ends in "[]".
func setField(obj map[string]any, name string, items []any) (string, any) {
	segs, appendList := splitName(name)

	node := obj
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[seg] = child
		}
		node = child
	}

	key := segs[len(segs)-1]
	var v any
	switch {
	case appendList:
		existing, _ := node[key].([]any)
		v = append(slices.Clone(existing), items...)
	case len(items) == 1:
		v = items[0]
	default:
		v = items
	}
	node[key] = v
	return strings.Join(segs, "."), v
}

// splitName parses "a[b][c]" into ["a","b","c"] and reports a trailing "[]".
// Names that are not well formed are used verbatim.
func splitName(name string) ([]string, bool) {
	open := strings.IndexByte(name, '[')
	if open <= 0 || !strings.HasSuffix(name, "]") {
		return []string{name}, false
	}

	segs := []string{name[:open]}
	rest := name[open:]
	appendList := false
	for rest != "" {
		if rest[0] != '[' {
			return []string{name}, false
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return []string{name}, false
		}
		seg := rest[1:end]
		rest = rest[end+1:]
		if seg == "" {
			if rest != "" {
				return []string{name}, false
			}
			appendList = true
			break
		}
		segs = append(segs, seg)
	}
	return segs, appendList
}
