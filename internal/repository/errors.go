package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups when no document matches.
var ErrNotFound = errors.New("record not found")

// FetchError reports a failed remote fetch. Transient; the caller's retry
// policy decides what to do with it.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports an unparseable page payload. Fatal to the crawl run that
// produced it: pagination cannot safely continue past unparseable state.
type ParseError struct {
	Source string
	Page   int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse page %d of %s: %v", e.Page, e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FieldMappingError reports a required field missing or of the wrong shape in
// a raw payload. Fatal to that one item only.
type FieldMappingError struct {
	Adapter string
	Field   string
	Reason  string
}

func (e *FieldMappingError) Error() string {
	return fmt.Sprintf("adapter %s: field %q: %s", e.Adapter, e.Field, e.Reason)
}

// WriteError reports a failed document store write. One bounded retry, then
// fatal to the item.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// UploadError reports a failed blob upload. Fatal to that one photo only.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
