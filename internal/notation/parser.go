// Package notation reads formulas written in infix notation.
//
// Precedence, tightest first: ∧, ∨, →. Conjunction and disjunction are
// left-associative; implication is right-associative, so "p → q → r" reads
// as "p → (q → r)". ASCII spellings are accepted for every connective:
//
//	∧   &  &&  /\
//	∨   |  ||  \/
//	→   -> =>
//
// Variable names match [A-Za-z_][A-Za-z0-9_']* and are NFC-normalized by
// formula.NewVar.
package notation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/roach88/ndk/internal/formula"
)

var (
	formulaLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Impl", Pattern: `->|=>|→`},
		{Name: "Conj", Pattern: `&&?|/\\|∧`},
		{Name: "Disj", Pattern: `\|\|?|\\/|∨`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_']*`},
		{Name: "Paren", Pattern: `[()]`},
	})
	formulaParser = participle.MustBuild[implExpr](
		participle.Lexer(formulaLexer),
		participle.Elide("Whitespace"),
	)
)

type implExpr struct {
	Left  *disjExpr `parser:"@@"`
	Right *implExpr `parser:"( Impl @@ )?"`
}

type disjExpr struct {
	Head *conjExpr   `parser:"@@"`
	Tail []*conjExpr `parser:"( Disj @@ )*"`
}

type conjExpr struct {
	Head *atom   `parser:"@@"`
	Tail []*atom `parser:"( Conj @@ )*"`
}

type atom struct {
	Var string    `parser:"  @Ident"`
	Sub *implExpr `parser:"| '(' @@ ')'"`
}

// ParseError describes why input could not be read as a formula.
type ParseError struct {
	// Input is the text that was parsed.
	Input string

	// Pos is the byte offset of the offending token.
	Pos int

	// Message describes what went wrong.
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q at offset %d: %s", e.Input, e.Pos, e.Message)
}

// IsParseError returns true if err is a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Parse reads s as a formula. The whole input must be consumed.
func Parse(s string) (formula.Formula, error) {
	if strings.TrimSpace(s) == "" {
		return nil, &ParseError{Input: s, Message: "empty formula"}
	}

	ast, err := formulaParser.ParseString("", s)
	if err != nil {
		pe := &ParseError{Input: s, Message: err.Error()}
		var perr participle.Error
		if errors.As(err, &perr) {
			pe.Pos = perr.Position().Offset
			pe.Message = perr.Message()
		}
		return nil, pe
	}
	return ast.formula(), nil
}

// MustParse is like Parse but panics on error. For tests and constants.
func MustParse(s string) formula.Formula {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

func (e *implExpr) formula() formula.Formula {
	left := e.Left.formula()
	if e.Right == nil {
		return left
	}
	return formula.NewImpl(left, e.Right.formula())
}

func (e *disjExpr) formula() formula.Formula {
	out := e.Head.formula()
	for _, c := range e.Tail {
		out = formula.NewDisj(out, c.formula())
	}
	return out
}

func (e *conjExpr) formula() formula.Formula {
	out := e.Head.formula()
	for _, a := range e.Tail {
		out = formula.NewConj(out, a.formula())
	}
	return out
}

func (a *atom) formula() formula.Formula {
	if a.Sub != nil {
		return a.Sub.formula()
	}
	return formula.NewVar(a.Var)
}
