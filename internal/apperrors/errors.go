package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidCurrency indicates that a conversion was attempted with both
// currencies unresolved. Fatal: aborts the recompute pass that triggered it.
var ErrInvalidCurrency = errors.New("conversion between unknown currencies")

// ErrMissingContext indicates a conversion without a company or an as-of date.
var ErrMissingContext = errors.New("conversion context incomplete")

// ErrDataIntegrity indicates corrupted stored data, e.g. a settlement edge
// referencing a journal line that no longer exists.
var ErrDataIntegrity = errors.New("data integrity violation")
