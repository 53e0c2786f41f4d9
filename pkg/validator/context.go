package validator

import "context"

// UploadLookup resolves the uploaded-file descriptor for a field of the current request.
type UploadLookup interface {
	UploadedFile(field string) (any, bool)
}

// UploadMap is an in-memory UploadLookup.
type UploadMap map[string]any

// UploadedFile implements UploadLookup.
func (m UploadMap) UploadedFile(field string) (any, bool) {
	f, ok := m[field]
	return f, ok && f != nil
}

type uploadsContextKey struct{}

// WithUploads stores the request's upload lookup in the context.
func WithUploads(ctx context.Context, uploads UploadLookup) context.Context {
	return context.WithValue(ctx, uploadsContextKey{}, uploads)
}

// UploadsFromContext returns the upload lookup of the current request, if any.
func UploadsFromContext(ctx context.Context) (UploadLookup, bool) {
	if ctx == nil {
		return nil, false
	}
	u, ok := ctx.Value(uploadsContextKey{}).(UploadLookup)
	return u, ok && u != nil
}
