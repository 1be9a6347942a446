package diag

import "fmt"

// Stage identifies which frontend phase produced the diagnostic.
type Stage string

const (
	StageLexer  Stage = "lexer"
	StageIndent Stage = "indent"
	StageParser Stage = "parser"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Scanner errors
	CodeLexIllegalChar        Code = "LEX_ILLEGAL_CHAR"
	CodeLexUnterminatedString Code = "LEX_UNTERMINATED_STRING"
	CodeLexBadNumber          Code = "LEX_BAD_NUMBER"

	// Indentation structural errors
	CodeIndentExpectedBlock Code = "INDENT_EXPECTED_BLOCK"
	CodeIndentOutsideBlock  Code = "INDENT_OUTSIDE_BLOCK"
	CodeIndentInconsistent  Code = "INDENT_INCONSISTENT"

	// Parse errors
	CodeParseUnexpectedToken Code = "PARSE_UNEXPECTED_TOKEN"
	CodeParseExpectedExpr    Code = "PARSE_EXPECTED_EXPRESSION"
	CodeParseUnexpectedEOF   Code = "PARSE_UNEXPECTED_EOF"
	CodeParseForMissingIn    Code = "PARSE_FOR_MISSING_IN"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int // 1-based
	Column   int // 1-based
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a frontend diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span
	Notes    []string // Additional notes to display
	Help     string   // Help text, may include a suggested rewrite
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithHelp adds help text to the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

// InFile returns a copy of the diagnostic whose span is attributed to the
// given filename, unless it already carries one.
func (d Diagnostic) InFile(filename string) Diagnostic {
	if d.Span.Filename == "" {
		d.Span.Filename = filename
	}
	return d
}
