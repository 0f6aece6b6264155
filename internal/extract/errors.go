package extract

import (
	"errors"
	"io/fs"

	"github.com/aws/smithy-go"

	"docex/internal/jsonutil"
)

// tooBusyError signals admission rejection for 429 mapping.
type tooBusyError struct{}

func (tooBusyError) Error() string { return "too busy: max in-flight extractions reached" }

// ErrTooBusy constructs an admission-rejection error.
func ErrTooBusy() error { return tooBusyError{} }

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	var e tooBusyError
	return errors.As(err, &e)
}

// documentNotFoundError is returned when a requested key has no object.
type documentNotFoundError struct{ key string }

func (e documentNotFoundError) Error() string { return "document not found: " + e.key }

// ErrDocumentNotFound constructs a missing-document error for the given key.
func ErrDocumentNotFound(key string) error { return documentNotFoundError{key: key} }

// IsDocumentNotFound reports whether the error indicates a missing document key.
func IsDocumentNotFound(err error) bool {
	var e documentNotFoundError
	return errors.As(err, &e)
}

// blueprintNotFoundError is returned for unknown blueprint ids.
type blueprintNotFoundError struct{ id string }

func (e blueprintNotFoundError) Error() string { return "blueprint not found: " + e.id }

// ErrBlueprintNotFound constructs a missing-blueprint error for the given id.
func ErrBlueprintNotFound(id string) error { return blueprintNotFoundError{id: id} }

// IsBlueprintNotFound reports whether the error indicates a missing blueprint id.
func IsBlueprintNotFound(err error) bool {
	var e blueprintNotFoundError
	return errors.As(err, &e)
}

// responseInvalidError wraps parse failures of model output for 502 mapping.
type responseInvalidError struct{ err error }

func (e responseInvalidError) Error() string { return "model response unusable: " + e.err.Error() }
func (e responseInvalidError) Unwrap() error { return e.err }

// ErrResponseInvalid wraps err as an unusable-model-output error.
func ErrResponseInvalid(err error) error { return responseInvalidError{err: err} }

// IsResponseInvalid reports whether err means the model output held no
// parseable JSON object.
func IsResponseInvalid(err error) bool {
	var e responseInvalidError
	return errors.As(err, &e)
}

// wrapGetErr converts storage miss errors into documentNotFoundError while
// leaving access and transport failures untouched.
func wrapGetErr(key string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return documentNotFoundError{key: key}
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return documentNotFoundError{key: key}
		}
	}
	return err
}

// wrapParseErr tags jsonutil failures; other errors pass through.
func wrapParseErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, jsonutil.ErrNoObject) || errors.Is(err, jsonutil.ErrInvalid) {
		return responseInvalidError{err: err}
	}
	return err
}
