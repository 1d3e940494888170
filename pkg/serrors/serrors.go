// Package serrors classifies failures into the small set of kinds the HTTP layer
// knows how to answer: malformed input, storage failures and upstream failures.
package serrors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindDecode
	KindStorage
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	case KindStorage:
		return "storage"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Error carries the kind and the operation that failed. The wrapped error keeps
// driver or transport detail for logs; it is never written to clients.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Decode(op string, err error) error {
	return newError(KindDecode, op, err)
}

func Storage(op string, err error) error {
	return newError(KindStorage, op, err)
}

func Upstream(op string, err error) error {
	return newError(KindUpstream, op, err)
}

// KindOf returns the kind of the outermost classified error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ValidationErrors maps a field name to a human readable message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FromValidator converts validator errors into field messages rendered by trans.
func FromValidator(errs validator.ValidationErrors, trans ut.Translator) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, e := range errs {
		if _, seen := out[e.Field()]; seen {
			continue
		}
		out[e.Field()] = e.Translate(trans)
	}
	return out
}
