// Package vc5err defines the stable error taxonomy shared by every VC-5
// component. Codes mirror the CODEC_ERROR enum of the GPR reference SDK so a
// DNG collaborator can switch on a stable integer rather than string-match
// error text.
package vc5err

import "fmt"

// Code is a stable integer error code, matching the reference CODEC_ERROR
// enumeration in value order (OKAY is never constructed as an error).
type Code int

const (
	Unexpected Code = iota + 1
	OutOfMemory
	Unimplemented
	NullPtr
	BitstreamSyntax
	ImageDimensions
	InvalidTag
	InvalidBand
	DecodingSubband
	NotFound
	BandEndMarker
	BandEndTrailer
	PixelFormat
	InvalidMarker
	UnsupportedFormat
	MissingStartMarker
	DuplicateHeaderParameter
	RequiredParameter
	LowpassPrecision
	LowpassValue
	ImageType
	ChannelSizeTable
	BadImageFormat
	PatternDimensions
	EnabledParts
	BandOverfull
	BandUnderfull
	UnknownCode
	Misaligned
	EndOfStream
)

var names = map[Code]string{
	Unexpected:               "unexpected condition",
	OutOfMemory:              "memory allocation failed",
	Unimplemented:            "function has not been implemented",
	NullPtr:                  "data structure or argument was nil",
	BitstreamSyntax:          "error in the sequence of tag value pairs",
	ImageDimensions:          "wrong or unknown image dimensions",
	InvalidTag:               "found a tag that should not be present",
	InvalidBand:              "wavelet band index is out of range",
	DecodingSubband:          "error decoding a wavelet subband",
	NotFound:                 "did not find a value codeword",
	BandEndMarker:            "could not find special codeword after end of band",
	BandEndTrailer:           "could not find start of highpass band trailer",
	PixelFormat:              "unsupported pixel format",
	InvalidMarker:            "bitstream marker was not found in the codebook",
	UnsupportedFormat:        "pixel or encoded format is not supported",
	MissingStartMarker:       "bitstream does not begin with the start marker",
	DuplicateHeaderParameter: "header parameter occurs more than once",
	RequiredParameter:        "required parameter absent when first subband arrived",
	LowpassPrecision:         "number of bits per lowpass coefficient out of range",
	LowpassValue:             "lowpass coefficient value is out of range",
	ImageType:                "could not determine the characteristics of the input image",
	ChannelSizeTable:         "could not write the channel size table",
	BadImageFormat:           "bad image format",
	PatternDimensions:        "bad pattern dimensions",
	EnabledParts:             "incorrect enabled parts of the VC-5 standard",
	BandOverfull:             "subband produced more coefficients than width*height",
	BandUnderfull:            "subband produced fewer coefficients than width*height",
	UnknownCode:              "codebook lookup found no matching prefix",
	Misaligned:               "bitstream position is not segment aligned",
	EndOfStream:              "read past the end of the bitstream",
}

func (c Code) String() string {
	if s, ok := names[c]; ok {
		return s
	}
	return fmt.Sprintf("vc5err.Code(%d)", int(c))
}

// Error is the concrete error type returned at every core boundary. It wraps
// an optional underlying cause while always carrying a stable Code so a
// caller can switch on it instead of matching strings.
type Error struct {
	Op    string // component/operation that raised the error, e.g. "bitstream.ReadBits"
	Code  Code
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs an *Error with no wrapped cause.
func New(op string, code Code) error {
	return &Error{Op: op, Code: code}
}

// Wrap constructs an *Error that wraps cause, or returns nil if cause is nil.
func Wrap(op string, code Code, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Op: op, Code: code, Cause: cause}
}

// CodeOf extracts the stable Code from err, or 0 if err is nil or not one of
// ours.
func CodeOf(err error) Code {
	var e *Error
	if err == nil {
		return 0
	}
	if ok := asError(err, &e); ok {
		return e.Code
	}
	return 0
}

// Assertf panics if cond is false, formatting msg/args as the panic value.
// Reserved for internal invariants that cannot be triggered by malicious
// input once header validation has passed (§7): a caller-visible data error
// must always go through New/Wrap instead, never Assertf.
func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
