package dml

import "github.com/pkg/errors"

var ErrOutOfBounds = errors.New("read out of bounds")
var ErrUnknownType = errors.New("unknown type")
var ErrFormat = errors.New("malformed dml")
var ErrMissingTemplate = errors.New("data record before template")
var ErrCountMismatch = errors.New("record count mismatch")
var ErrEmptyTable = errors.New("table has no records to derive a template from")
var ErrDuplicateTable = errors.New("duplicate target table")
var ErrInvalidValue = errors.New("invalid field value")
var ErrValueTooLong = errors.New("value does not fit a u16 length")
