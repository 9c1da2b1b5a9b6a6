package ansimark

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedTag reports tag syntax that cannot be scanned.
	ErrMalformedTag = errors.New("malformed tag")
	// ErrUnbalancedTag reports a closing tag with no open node.
	ErrUnbalancedTag = errors.New("unbalanced closing tag")
	// ErrUnclosedTag reports end of input with a node still open.
	ErrUnclosedTag = errors.New("unclosed tag")
	// ErrInvalidColorSpec reports a color specification that does not match the grammar.
	ErrInvalidColorSpec = errors.New("invalid color spec")
	// ErrInvalidLegacyCode reports an unknown character in a legacy code stream.
	ErrInvalidLegacyCode = errors.New("invalid legacy code")
)

// ParseError locates a tag parser failure in the source text.
type ParseError struct {
	Err    error
	Offset int
	Detail string
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Detail != "" {
		return fmt.Sprintf("parse: offset %d: %v: %s", e.Offset, e.Err, e.Detail)
	}
	return fmt.Sprintf("parse: offset %d: %v", e.Offset, e.Err)
}

// Unwrap exposes the sentinel error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ColorSpecError reports where a color specification stopped matching.
type ColorSpecError struct {
	Spec   string
	Offset int
	Detail string
}

func (e *ColorSpecError) Error() string {
	if e == nil {
		return ""
	}
	if e.Detail != "" {
		return fmt.Sprintf("%v %q at %d: %s", ErrInvalidColorSpec, e.Spec, e.Offset, e.Detail)
	}
	return fmt.Sprintf("%v %q at %d", ErrInvalidColorSpec, e.Spec, e.Offset)
}

// Unwrap returns ErrInvalidColorSpec.
func (e *ColorSpecError) Unwrap() error {
	return ErrInvalidColorSpec
}

// ResolveError ties a resolution failure to the node that caused it.
type ResolveError struct {
	Node NodeID
	Err  error
}

func (e *ResolveError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("resolve node %d: %v", e.Node, e.Err)
}

// Unwrap exposes the underlying error.
func (e *ResolveError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// LegacyError locates an invalid legacy code.
type LegacyError struct {
	Position int
	Code     rune
	Detail   string
}

func (e *LegacyError) Error() string {
	if e == nil {
		return ""
	}
	if e.Detail != "" {
		return fmt.Sprintf("%v: %s", ErrInvalidLegacyCode, e.Detail)
	}
	return fmt.Sprintf("%v %q at %d", ErrInvalidLegacyCode, e.Code, e.Position)
}

// Unwrap returns ErrInvalidLegacyCode.
func (e *LegacyError) Unwrap() error {
	return ErrInvalidLegacyCode
}
