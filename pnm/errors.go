package pnm

import "fmt"

// Kind classifies codec failures. Each Kind is itself an error so callers
// can match with errors.Is(err, pnm.ErrSizeMismatch).
type Kind int

const (
	// ErrUnrecognizedMagic: the first two bytes are not P2, P3, P5 or P6.
	ErrUnrecognizedMagic Kind = iota + 1
	// ErrTruncatedHeader: input ended before width, height, maxval and the
	// raster start were all found.
	ErrTruncatedHeader
	// ErrInvalidParam: a header token is not valid UTF-8, not a decimal
	// unsigned integer, or out of range.
	ErrInvalidParam
	// ErrSizeMismatch: the raster length disagrees with the header.
	ErrSizeMismatch
	// ErrInvalidAsciiRaster: a plain raster is not UTF-8 or holds a
	// non-numeric token.
	ErrInvalidAsciiRaster
)

func (k Kind) Error() string {
	switch k {
	case ErrUnrecognizedMagic:
		return "unrecognized magic"
	case ErrTruncatedHeader:
		return "truncated header"
	case ErrInvalidParam:
		return "invalid header parameter"
	case ErrSizeMismatch:
		return "raster size mismatch"
	case ErrInvalidAsciiRaster:
		return "invalid ascii raster"
	default:
		return fmt.Sprintf("pnm error kind %d", int(k))
	}
}

// FormatError is returned by every failing decode. It carries the context
// needed to print a diagnostic.
type FormatError struct {
	Kind Kind
	// Magic holds the offending leading bytes for ErrUnrecognizedMagic.
	Magic []byte
	// Token is the offending header or raster token.
	Token string
	// Offset is the byte offset of the failure. For ascii raster tokens it
	// is the sample index instead.
	Offset int
	// Expected and Actual are byte or token counts for ErrSizeMismatch.
	Expected, Actual int
	// Err is the underlying parse error, if any.
	Err error
}

func (e *FormatError) Error() string {
	switch e.Kind {
	case ErrUnrecognizedMagic:
		return fmt.Sprintf("pnm: %s %q", e.Kind, e.Magic)
	case ErrTruncatedHeader:
		return fmt.Sprintf("pnm: %s at offset %d", e.Kind, e.Offset)
	case ErrSizeMismatch:
		return fmt.Sprintf("pnm: %s: expected %d, got %d", e.Kind, e.Expected, e.Actual)
	}
	msg := fmt.Sprintf("pnm: %s %q at offset %d", e.Kind, e.Token, e.Offset)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying parse error.
func (e *FormatError) Unwrap() error { return e.Err }

// Is matches a FormatError against its Kind sentinel.
func (e *FormatError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}
