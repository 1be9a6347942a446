package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Formatter renders diagnostics with a source snippet and caret, in the
// style of modern compiler output.
type Formatter struct {
	out         io.Writer
	sourceCache map[string]string
}

// NewFormatter creates a formatter that writes to stderr.
func NewFormatter() *Formatter {
	return &Formatter{
		out:         os.Stderr,
		sourceCache: make(map[string]string),
	}
}

// NewFormatterTo creates a formatter that writes to w.
func NewFormatterTo(w io.Writer) *Formatter {
	return &Formatter{
		out:         w,
		sourceCache: make(map[string]string),
	}
}

// LoadSource loads source code for a file, caching by filename.
func (f *Formatter) LoadSource(filename string) (string, error) {
	if filename == "" {
		return "", nil
	}
	if src, ok := f.sourceCache[filename]; ok {
		return src, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, nil
}

// SetSource registers in-memory source text for a filename so snippets can
// be rendered without touching the filesystem.
func (f *Formatter) SetSource(filename, src string) {
	f.sourceCache[filename] = src
}

// Format renders one diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	fmt.Fprintf(f.out, "%s[%s]: %s\n", d.Severity, d.Code, d.Message)

	if d.Span.IsValid() {
		fmt.Fprintf(f.out, " --> %s\n", d.Span)
		f.printSnippet(d.Span)
	}

	for _, note := range d.Notes {
		fmt.Fprintf(f.out, "  = note: %s\n", note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.out, "  = help: %s\n", d.Help)
	}
}

// printSnippet prints the offending source line with a caret under the span
// column, when the source is available in the cache.
func (f *Formatter) printSnippet(span Span) {
	src, err := f.LoadSource(span.Filename)
	if err != nil || src == "" {
		return
	}

	lines := strings.Split(src, "\n")
	if span.Line < 1 || span.Line > len(lines) {
		return
	}
	line := strings.TrimRight(lines[span.Line-1], "\r")

	gutter := fmt.Sprintf("%d", span.Line)
	pad := strings.Repeat(" ", len(gutter))

	fmt.Fprintf(f.out, "%s |\n", pad)
	fmt.Fprintf(f.out, "%s | %s\n", gutter, line)

	caret := span.Column - 1
	if caret < 0 {
		caret = 0
	}
	if caret > len(line) {
		caret = len(line)
	}
	fmt.Fprintf(f.out, "%s | %s^\n", pad, strings.Repeat(" ", caret))
}
