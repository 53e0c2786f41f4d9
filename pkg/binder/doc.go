// Package binder extracts an untyped input object from an HTTP request.
//
// Extract merges every source a form submission can use into one
// map[string]any, later sources winning on key conflicts:
//
//  1. a JSON object body (application/json, up to 1 MB)
//  2. uploaded files (multipart/form-data), as *multipart.FileHeader values
//  3. form fields (urlencoded or multipart)
//  4. query parameters
//
// Single-valued fields become strings and repeated fields become []any.
// Bracketed names nest: "user[name]" lands in obj["user"]["name"] and
// "tags[]" always produces a list.
//
//	obj, files, err := binder.Extract(r)
//	if err != nil {
//	    // errors.Is(err, binder.ErrUnsupportedMediaType) and friends
//	}
//	ctx := validator.WithUploads(r.Context(), files)
//
// Files implements validator.UploadLookup, so the file rule can confirm that
// a value really came from an upload. Upload filenames are sanitized.
package binder
