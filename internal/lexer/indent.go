package lexer

import (
	"strconv"

	"github.com/quark-lang/quark-lang/internal/diag"
)

// IndentErrorKind discriminates structural indentation errors.
type IndentErrorKind int

const (
	ErrExpectedBlock IndentErrorKind = iota
	ErrIndentOutsideBlock
	ErrInconsistentIndent
)

// IndentError is a structural indentation error. It is fatal: INDENT/DEDENT
// placement cannot be derived safely past a violation, so normalization
// aborts on the first one.
type IndentError struct {
	Kind    IndentErrorKind
	Message string
	Line    int
	Column  int
}

// Error implements the error interface.
func (e *IndentError) Error() string {
	return "indentation error at line " + strconv.Itoa(e.Line) + ": " + e.Message
}

func (k IndentErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrExpectedBlock:
		return diag.CodeIndentExpectedBlock
	case ErrIndentOutsideBlock:
		return diag.CodeIndentOutsideBlock
	case ErrInconsistentIndent:
		return diag.CodeIndentInconsistent
	default:
		return diag.Code("INDENT_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts the error into a shared diagnostic structure.
func (e *IndentError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageIndent,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span: diag.Span{
			Line:   e.Line,
			Column: e.Column,
		},
	}
}

// Normalize converts a primitive token stream into the parser's view of it:
// leading-whitespace widths become INDENT/DEDENT pairs, blank-line NEWLINEs
// are suppressed, and the stream gains a trailing EOF token. Two passes keep
// the "when may a block start" grammar concern separate from the "how deep
// is this line" arithmetic: markIndents tags the stream, applyIndents does
// the level bookkeeping.
func Normalize(toks []Token) ([]Token, error) {
	return applyIndents(markIndents(toks))
}

// indentState tracks whether the next real token may or must begin an
// indented block.
type indentState uint8

const (
	noIndent indentState = iota
	mayIndent
	mustIndent
)

// markIndents tags each token with AtLineStart and MustIndent. A new
// indented block is only legal immediately after a colon followed by a line
// break; a bare line break never licenses one.
func markIndents(toks []Token) []Token {
	out := make([]Token, len(toks))
	copy(out, toks)

	atLineStart := true
	state := noIndent

	for i := range out {
		tok := &out[i]
		tok.AtLineStart = atLineStart

		switch tok.Kind {
		case COLON:
			atLineStart = false
			state = mayIndent

		case NEWLINE:
			atLineStart = true
			if state == mayIndent {
				state = mustIndent
			}

		case WS:
			// Whitespace tokens only occur at line start by construction;
			// the pending indent state is unaffected.
			atLineStart = true

		default:
			if state == mustIndent {
				tok.MustIndent = true
			}
			atLineStart = false
			state = noIndent
		}
	}

	return out
}

// applyIndents converts leading-whitespace widths into a stack of
// indentation levels, synthesizing INDENT/DEDENT tokens and suppressing
// blank-line NEWLINEs. The stack always begins with width 0 and item 0 is
// never popped.
func applyIndents(toks []Token) ([]Token, error) {
	levels := []int{0}
	depth := 0
	prevWasWS := false

	out := make([]Token, 0, len(toks)+2)
	var last Token
	haveLast := false

	for i := range toks {
		tok := toks[i]

		switch tok.Kind {
		case WS:
			// Track the depth only; whether the line is real or blank is
			// decided by what follows. WS tokens never reach the parser.
			depth = tok.Width
			prevWasWS = true
			continue

		case NEWLINE:
			depth = 0
			if prevWasWS || tok.AtLineStart {
				// Blank line.
				continue
			}
			out = append(out, tok)
			last, haveLast = tok, true
			continue
		}

		// A real token, which can affect the indentation level.
		prevWasWS = false

		if tok.MustIndent {
			if depth <= levels[len(levels)-1] {
				return nil, &IndentError{
					Kind:    ErrExpectedBlock,
					Message: "expected an indented block",
					Line:    tok.Line,
					Column:  tok.Column,
				}
			}
			levels = append(levels, depth)
			out = append(out, Token{Kind: INDENT, Line: tok.Line, Column: tok.Column})
		} else if tok.AtLineStart {
			switch {
			case depth == levels[len(levels)-1]:
				// Same level, nothing to do.
			case depth > levels[len(levels)-1]:
				return nil, &IndentError{
					Kind:    ErrIndentOutsideBlock,
					Message: "indentation increase but not in new block",
					Line:    tok.Line,
					Column:  tok.Column,
				}
			default:
				// Back up, but only to a width already on the stack.
				target := -1
				for j, w := range levels {
					if w == depth {
						target = j
						break
					}
				}
				if target < 0 {
					return nil, &IndentError{
						Kind:    ErrInconsistentIndent,
						Message: "inconsistent indentation",
						Line:    tok.Line,
						Column:  tok.Column,
					}
				}
				for j := len(levels) - 1; j > target; j-- {
					out = append(out, Token{Kind: DEDENT, Line: tok.Line, Column: tok.Column})
				}
				levels = levels[:target+1]
			}
		}

		out = append(out, tok)
		last, haveLast = tok, true
	}

	// Flush remaining levels above the base, then terminate the stream.
	line, column := 1, 1
	if haveLast {
		line, column = last.Line, last.Column
	}
	for j := len(levels) - 1; j > 0; j-- {
		out = append(out, Token{Kind: DEDENT, Line: line, Column: column})
	}
	out = append(out, Token{Kind: EOF, Line: line, Column: column})

	return out, nil
}
