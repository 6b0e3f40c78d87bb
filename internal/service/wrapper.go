package service

import (
	"fmt"
	"strings"
)

// Stripper removes a known wrapper from model output before it is parsed.
type Stripper interface {
	Strip(text string) string
}

// Wrapper modes accepted by NewStripper.
const (
	WrapperFence  = "fence"
	WrapperOffset = "offset"
	WrapperNone   = "none"
)

// NewStripper builds the stripper for a configured wrapper mode.
func NewStripper(mode string, prefix, suffix int) (Stripper, error) {
	switch strings.ToLower(mode) {
	case "", WrapperFence:
		return NewFenceStripper(), nil
	case WrapperOffset:
		if prefix < 0 || suffix < 0 {
			return nil, fmt.Errorf("offset wrapper widths must not be negative (prefix=%d, suffix=%d)", prefix, suffix)
		}
		return OffsetStripper{Prefix: prefix, Suffix: suffix}, nil
	case WrapperNone:
		return NoopStripper{}, nil
	default:
		return nil, fmt.Errorf("unknown response wrapper %q", mode)
	}
}

// NoopStripper returns its input unchanged.
type NoopStripper struct{}

func (NoopStripper) Strip(text string) string { return text }

// Delimiter is an opening and closing marker pair around a payload.
type Delimiter struct {
	Open  string
	Close string
}

// DefaultFences are the markdown code fences small models tend to wrap JSON in.
// Longer openers come first so "```json" is not matched as "```".
var DefaultFences = []Delimiter{
	{Open: "```json", Close: "```"},
	{Open: "```JSON", Close: "```"},
	{Open: "```", Close: "```"},
}

// FenceStripper removes the first delimiter pair that encloses the whole
// (whitespace trimmed) text. Text that is not enclosed is returned as-is.
type FenceStripper struct {
	Delimiters []Delimiter
}

func NewFenceStripper() FenceStripper {
	return FenceStripper{Delimiters: DefaultFences}
}

func (f FenceStripper) Strip(text string) string {
	trimmed := strings.TrimSpace(text)
	for _, d := range f.Delimiters {
		if len(trimmed) < len(d.Open)+len(d.Close) {
			continue
		}
		if strings.HasPrefix(trimmed, d.Open) && strings.HasSuffix(trimmed, d.Close) {
			inner := trimmed[len(d.Open) : len(trimmed)-len(d.Close)]
			return strings.TrimSpace(inner)
		}
	}
	return text
}

// OffsetStripper drops a fixed number of bytes from each end. Input shorter
// than the window becomes empty.
type OffsetStripper struct {
	Prefix int
	Suffix int
}

func (o OffsetStripper) Strip(text string) string {
	if len(text) <= o.Prefix+o.Suffix {
		return ""
	}
	return text[o.Prefix : len(text)-o.Suffix]
}
