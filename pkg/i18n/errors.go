package i18n

import "errors"

var (
	ErrNilAdapter           = errors.New("translation adapter is nil")
	ErrLanguageNotSupported = errors.New("language not supported")
	ErrUnsupportedFormat    = errors.New("unsupported translation file format")
	ErrEmptyLanguageCode    = errors.New("empty language code in translations")

	ErrFailedToParseJSON = errors.New("failed to parse JSON translations")
	ErrFailedToParseYAML = errors.New("failed to parse YAML translations")

	ErrFailedToReadFile      = errors.New("failed to read translation file")
	ErrFailedToReadDirectory = errors.New("failed to read translation directory")
	ErrLoadingCancelled      = errors.New("loading translations cancelled")

	ErrFailedToMarshalJSON = errors.New("failed to marshal translations to JSON")
)
