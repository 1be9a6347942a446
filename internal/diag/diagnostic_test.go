package diag

import (
	"strings"
	"testing"
)

func TestSpan_String(t *testing.T) {
	tests := []struct {
		span     Span
		expected string
	}{
		{Span{Filename: "main.qk", Line: 3, Column: 7}, "main.qk:3:7"},
		{Span{Line: 3, Column: 7}, "3:7"},
	}

	for _, tt := range tests {
		if got := tt.span.String(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestSpan_IsValid(t *testing.T) {
	if (Span{}).IsValid() {
		t.Error("zero span should be invalid")
	}
	if !(Span{Line: 1, Column: 1}).IsValid() {
		t.Error("1:1 span should be valid")
	}
}

func TestDiagnostic_Builders(t *testing.T) {
	d := Diagnostic{
		Stage:    StageParser,
		Severity: SeverityError,
		Code:     CodeParseUnexpectedToken,
		Message:  "expected COLON but got NEWLINE",
		Span:     Span{Line: 2, Column: 5},
	}

	d2 := d.WithNote("block headers end with a colon").
		WithHelp("add ':' at the end of the line").
		InFile("main.qk")

	if len(d2.Notes) != 1 || d2.Help == "" {
		t.Fatalf("builders did not populate diagnostic: %+v", d2)
	}
	if d2.Span.Filename != "main.qk" {
		t.Fatalf("expected filename attribution, got %q", d2.Span.Filename)
	}

	// InFile never overwrites an existing attribution.
	d3 := d2.InFile("other.qk")
	if d3.Span.Filename != "main.qk" {
		t.Fatalf("InFile overwrote existing filename: %q", d3.Span.Filename)
	}

	// The original is unchanged.
	if len(d.Notes) != 0 || d.Help != "" || d.Span.Filename != "" {
		t.Fatalf("builders mutated the receiver: %+v", d)
	}
}

func TestFormatter_Format(t *testing.T) {
	var sb strings.Builder
	f := NewFormatterTo(&sb)
	f.SetSource("main.qk", "x = 1\nif x\n    y\n")

	f.Format(Diagnostic{
		Stage:    StageParser,
		Severity: SeverityError,
		Code:     CodeParseUnexpectedToken,
		Message:  "expected COLON but got NEWLINE",
		Span:     Span{Filename: "main.qk", Line: 2, Column: 5},
	}.WithHelp("add ':' at the end of the line"))

	out := sb.String()

	for _, want := range []string{
		"error[PARSE_UNEXPECTED_TOKEN]: expected COLON but got NEWLINE",
		" --> main.qk:2:5",
		"2 | if x",
		"  |     ^",
		"  = help: add ':' at the end of the line",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatter_FormatWithoutSource(t *testing.T) {
	var sb strings.Builder
	f := NewFormatterTo(&sb)

	f.Format(Diagnostic{
		Stage:    StageLexer,
		Severity: SeverityError,
		Code:     CodeLexIllegalChar,
		Message:  `illegal character "$"`,
		Span:     Span{Line: 1, Column: 3},
	})

	out := sb.String()
	if !strings.Contains(out, "error[LEX_ILLEGAL_CHAR]") {
		t.Fatalf("header missing:\n%s", out)
	}
	// No snippet without cached source, but the location still prints.
	if !strings.Contains(out, " --> 1:3") {
		t.Fatalf("location missing:\n%s", out)
	}
	if strings.Contains(out, "^") {
		t.Fatalf("caret printed without source:\n%s", out)
	}
}
