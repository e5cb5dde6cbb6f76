package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/ndk/internal/assume"
	"github.com/roach88/ndk/internal/formula"
	"github.com/roach88/ndk/internal/kernel"
	"github.com/roach88/ndk/internal/notation"
	"github.com/roach88/ndk/internal/scoped"
	"github.com/roach88/ndk/internal/script"
)

// ErrQuit is returned by Session.Exec when the user asks to leave.
var ErrQuit = errors.New("quit")

const sessionHelp = `Commands (proofs are referred to by number, with or without #):
  assume <formula>                 open a scoped hypothesis
  discharge [n]                    close the innermost scope over proof n (default: last)
  suppose <label> <formula>        hypothesis with an explicit label
  conj_intro <n> <m>               from A and B, A ∧ B
  conj_elim <n> left|right         from A ∧ B, A or B
  disj_intro <n> left|right <f>    from A, A ∨ f or f ∨ A
  impl_elim <n> <m>                from A and A → B, B
  impl_intro <label> <n>           discharge label from proof n
  disj_elim <n> <m> <l1> <k> <l2>  by cases
  have                             list proofs and open scopes
  show <formula> [n]               check proof n (default: last) proves formula
  help                             this text
  quit                             leave`

// Session is an interactive proof session over one scope stack.
// Every accepted proof is numbered from 1 and can be reused by number.
//
// Thread-safety: a Session is not safe for concurrent use.
type Session struct {
	stack  *scoped.Stack
	proofs []kernel.Proof
}

// NewSession creates a session whose scoped hypotheses use labels.
func NewSession(labels scoped.LabelGenerator) *Session {
	return &Session{stack: scoped.NewStack(scoped.WithLabels(labels))}
}

// Exec runs one command line and returns its output.
// Kernel and scope rejections are returned as errors; the session is
// unchanged by a rejected command.
func (s *Session) Exec(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", nil
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch cmd {
	case "quit", "exit":
		return "", ErrQuit
	case "help":
		return sessionHelp, nil
	case "have":
		return s.have(), nil
	case script.RuleAssume:
		f, err := parseArg(rest)
		if err != nil {
			return "", err
		}
		pf, l, err := s.stack.Assume(f)
		if err != nil {
			return "", err
		}
		return s.accept(pf) + fmt.Sprintf("  (scope %s)", l), nil
	case script.RuleDischarge:
		p, err := s.refOrLast(args, 0)
		if err != nil {
			return "", err
		}
		pf, err := s.stack.DischargeInnermost(p)
		if err != nil {
			return "", err
		}
		return s.accept(pf), nil
	case "show":
		return s.show(rest)
	case kernel.RuleSuppose:
		if len(args) < 2 {
			return "", fmt.Errorf("usage: suppose <label> <formula>")
		}
		f, err := parseArg(strings.TrimSpace(strings.TrimPrefix(rest, args[0])))
		if err != nil {
			return "", err
		}
		return s.apply(kernel.Suppose(f, assume.Label(args[0])))
	case kernel.RuleConjIntro:
		ps, err := s.refs(args, 2)
		if err != nil {
			return "", err
		}
		return s.apply(kernel.ConjIntro(ps[0], ps[1]))
	case kernel.RuleConjElim:
		if len(args) != 2 {
			return "", fmt.Errorf("usage: conj_elim <n> left|right")
		}
		p, side, err := s.refSide(args[0], args[1])
		if err != nil {
			return "", err
		}
		return s.apply(kernel.ConjElim(p, side))
	case kernel.RuleDisjIntro:
		if len(args) < 3 {
			return "", fmt.Errorf("usage: disj_intro <n> left|right <formula>")
		}
		p, side, err := s.refSide(args[0], args[1])
		if err != nil {
			return "", err
		}
		f, err := parseArg(strings.Join(args[2:], " "))
		if err != nil {
			return "", err
		}
		return s.apply(kernel.DisjIntro(p, side, f))
	case kernel.RuleImplElim:
		ps, err := s.refs(args, 2)
		if err != nil {
			return "", err
		}
		return s.apply(kernel.ImplElim(ps[0], ps[1]))
	case kernel.RuleImplIntro:
		if len(args) != 2 {
			return "", fmt.Errorf("usage: impl_intro <label> <n>")
		}
		p, err := s.ref(args[1])
		if err != nil {
			return "", err
		}
		return s.apply(kernel.ImplIntro(assume.Label(args[0]), p))
	case kernel.RuleDisjElim:
		if len(args) != 5 {
			return "", fmt.Errorf("usage: disj_elim <n> <m> <l1> <k> <l2>")
		}
		ps, err := s.refs([]string{args[0], args[1], args[3]}, 3)
		if err != nil {
			return "", err
		}
		return s.apply(kernel.DisjElim(ps[0], ps[1], assume.Label(args[2]), ps[2], assume.Label(args[4])))
	default:
		return "", fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

// Len returns the number of accepted proofs.
func (s *Session) Len() int {
	return len(s.proofs)
}

func (s *Session) apply(pf kernel.Proof, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return s.accept(pf), nil
}

func (s *Session) accept(pf kernel.Proof) string {
	s.proofs = append(s.proofs, pf)
	return fmt.Sprintf("[%d] %s", len(s.proofs), pf)
}

func (s *Session) have() string {
	var b strings.Builder
	for i, pf := range s.proofs {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, pf)
	}
	open := s.stack.Open()
	if len(open) == 0 {
		b.WriteString("no open scopes")
	} else {
		labels := make([]string, len(open))
		for i, l := range open {
			labels[i] = string(l)
		}
		fmt.Fprintf(&b, "open scopes: %s", strings.Join(labels, ", "))
	}
	return b.String()
}

func (s *Session) show(rest string) (string, error) {
	var ref []string
	if i := strings.LastIndex(rest, " "); i >= 0 {
		if _, err := parseRef(rest[i+1:]); err == nil {
			ref = []string{rest[i+1:]}
			rest = rest[:i]
		}
	}
	goal, err := parseArg(rest)
	if err != nil {
		return "", err
	}
	p, err := s.refOrLast(ref, 0)
	if err != nil {
		return "", err
	}
	pf, err := kernel.Shows(p, goal)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("theorem %s", pf), nil
}

func (s *Session) ref(arg string) (kernel.Proof, error) {
	n, err := parseRef(arg)
	if err != nil {
		return kernel.Proof{}, err
	}
	if n < 1 || n > len(s.proofs) {
		return kernel.Proof{}, fmt.Errorf("no proof [%d] (have %d)", n, len(s.proofs))
	}
	return s.proofs[n-1], nil
}

func (s *Session) refs(args []string, want int) ([]kernel.Proof, error) {
	if len(args) != want {
		return nil, fmt.Errorf("expected %d proof numbers, got %d", want, len(args))
	}
	out := make([]kernel.Proof, want)
	for i, a := range args {
		p, err := s.ref(a)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func (s *Session) refOrLast(args []string, i int) (kernel.Proof, error) {
	if len(args) > i {
		return s.ref(args[i])
	}
	if len(s.proofs) == 0 {
		return kernel.Proof{}, fmt.Errorf("no proofs yet")
	}
	return s.proofs[len(s.proofs)-1], nil
}

func (s *Session) refSide(ref, side string) (kernel.Proof, kernel.Side, error) {
	p, err := s.ref(ref)
	if err != nil {
		return kernel.Proof{}, 0, err
	}
	sd, ok := kernel.ParseSide(side)
	if !ok {
		return kernel.Proof{}, 0, fmt.Errorf("invalid side %q (must be left or right)", side)
	}
	return p, sd, nil
}

func parseRef(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil {
		return 0, fmt.Errorf("invalid proof number %q", arg)
	}
	return n, nil
}

func parseArg(text string) (formula.Formula, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("missing formula")
	}
	return notation.Parse(text)
}
