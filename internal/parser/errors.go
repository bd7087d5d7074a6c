package parser

import "fmt"

// StructuralError reports a malformed section marker stream: the counts of
// section begins, header/body transitions and ends disagree, which means a
// marker block is unterminated or the file is truncated mid-section.
type StructuralError struct {
	Begins, Mids, Ends int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("propaceos: malformed marker stream: %d section begins, %d header/body transitions, %d ends",
		e.Begins, e.Mids, e.Ends)
}

// ParseError reports text that failed to parse as the expected numeric
// content, identifying the section or field it belongs to.
type ParseError struct {
	Section string
	Msg     string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("propaceos: %s: %s: %v", e.Section, e.Msg, e.Err)
	}
	return fmt.Sprintf("propaceos: %s: %s", e.Section, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ShapeError reports a field whose flattened length does not match the
// product of its expected dimensions. It can only be detected after the
// whole file has been scanned, since the dimensions come from the grid
// sections.
type ShapeError struct {
	Field string
	Want  []int
	Got   int
}

func (e *ShapeError) Error() string {
	want := 1
	for _, d := range e.Want {
		want *= d
	}
	return fmt.Sprintf("propaceos: field %q has %d elements, want %d for shape %v",
		e.Field, e.Got, want, e.Want)
}

// MissingFieldError reports a required quantity that was never populated
// because its section was absent from the file.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("propaceos: required field %q missing: its section was not found in the file", e.Field)
}
