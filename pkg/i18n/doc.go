// Package i18n translates validation messages and negotiates the request locale.
//
// Translations are trees keyed by language. Leaves are message templates with
// %{name} placeholders; inner nodes group keys into namespaces:
//
//	id:
//	  validator:
//	    required: "%{label} wajib diisi"
//	    too short: "%{label} minimal %{min} karakter"
//
// A Translator loads them through an Adapter (MapAdapter, FileAdapter,
// DirectoryAdapter or NewFSAdapter for embedded files) and implements
// validator.Translator, so it plugs straight into the validator:
//
//	tr, err := i18n.NewTranslator(ctx, i18n.NewDirectoryAdapter("./translations"),
//		i18n.WithDefaultLanguage("en"),
//	)
//	v := validator.New(validator.WithTranslator(tr))
//
// The locale comes from the context. Middleware negotiates it from the query
// string, a cookie or Accept-Language and stores it with SetLocale. Missing keys
// fall back to the base language, then the default language, then the key itself.
package i18n
