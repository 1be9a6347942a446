package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/quark-lang/quark-lang/internal/ast"
	"github.com/quark-lang/quark-lang/internal/diag"
	"github.com/quark-lang/quark-lang/internal/lexer"
	"github.com/quark-lang/quark-lang/internal/parser"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: quark <command> [options]\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  lex <file>      Print the normalized token stream\n")
		fmt.Fprintf(os.Stderr, "  parse <file>    Print the syntax tree\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "lex":
		runLex(args)
	case "parse":
		runParse(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func readSource(args []string, usage string) (string, string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: quark %s <file>\n", usage)
		os.Exit(1)
	}
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quark: %v\n", err)
		os.Exit(1)
	}
	return path, string(data)
}

// report prints a formatted diagnostic with a source snippet and exits.
func report(path, src string, d diag.Diagnostic) {
	f := diag.NewFormatter()
	f.SetSource(path, src)
	f.Format(d.InFile(path))
	os.Exit(1)
}

type diagnosable interface {
	ToDiagnostic() diag.Diagnostic
}

func runLex(args []string) {
	path, src := readSource(args, "lex")

	s := lexer.New(src)
	toks := s.Scan()
	for _, lexErr := range s.Errors {
		f := diag.NewFormatter()
		f.SetSource(path, src)
		f.Format(lexErr.ToDiagnostic().InFile(path))
	}
	if len(s.Errors) > 0 {
		os.Exit(1)
	}

	normalized, err := lexer.Normalize(toks)
	if err != nil {
		if d, ok := err.(diagnosable); ok {
			report(path, src, d.ToDiagnostic())
		}
		fmt.Fprintf(os.Stderr, "quark: %v\n", err)
		os.Exit(1)
	}

	for i, tok := range normalized {
		fmt.Printf("#%d\t%d:%d\t%s\n", i, tok.Line, tok.Column, tok)
	}
}

func runParse(args []string) {
	path, src := readSource(args, "parse")

	tree, err := parser.ParseSource(src, parser.WithFilename(path))
	if err != nil {
		if d, ok := err.(diagnosable); ok {
			report(path, src, d.ToDiagnostic())
		}
		fmt.Fprintf(os.Stderr, "quark: %v\n", err)
		os.Exit(1)
	}

	ast.Fprint(os.Stdout, tree)
}
