// Package form keeps named validation schemas and validates submissions against them.
//
// Schemas come from one or more sources, loaded in order so that later sources
// override earlier ones:
//
//	reg, err := form.NewRegistry(ctx,
//	    form.FileSource{Path: "forms.yaml"},
//	    form.NewDirectorySource("forms.d"),
//	    form.NewRedisSource(client, ""),
//	)
//
// A Form wraps one schema for the lifetime of a request:
//
//	f, err := form.New(reg, v, "signup")
//	if err != nil {
//	    return err // form.ErrFormNotRegistered
//	}
//	result, err := f.ValidateRequest(r)
//	if err != nil {
//	    return err // extraction or configuration problem
//	}
//	if result == nil {
//	    render(f.Errors())
//	}
//
// Every top-level field spec receives an extra "name" parameter, so messages
// may reference the raw field name as %{name} next to %{label}.
package form
