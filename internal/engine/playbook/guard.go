package playbook

import (
	"strconv"
	"strings"

	"github.com/pregate/pregate/internal/core/domain"
	"go.trai.ch/zerr"
)

// guardKind identifies the comparison a when expression performs.
type guardKind uint8

const (
	guardRCEquals guardKind = iota
	guardRCNotEquals
	guardIs
)

// guard is a parsed when expression. The grammar is deliberately small:
//
//	<var>.rc == <int>
//	<var>.rc != <int>
//	<var> is succeeded|failed|skipped
type guard struct {
	variable string
	kind     guardKind
	rc       int
	state    string
}

func parseGuard(expr string) (*guard, error) {
	fields := strings.Fields(expr)
	if len(fields) != 3 {
		return nil, badGuard(expr, "expression form not recognized")
	}

	switch fields[1] {
	case "==", "!=":
		variable, ok := strings.CutSuffix(fields[0], ".rc")
		if !ok || variable == "" {
			return nil, badGuard(expr, "only .rc comparisons are supported")
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, badGuard(expr, "comparison value must be an integer")
		}
		kind := guardRCEquals
		if fields[1] == "!=" {
			kind = guardRCNotEquals
		}
		return &guard{variable: variable, kind: kind, rc: n}, nil

	case "is":
		variable := fields[0]
		if variable == "" || strings.Contains(variable, ".") {
			return nil, badGuard(expr, "state checks apply to a registered variable")
		}
		state := fields[2]
		switch state {
		case "succeeded", "failed", "skipped":
		default:
			return nil, badGuard(expr, "unknown result state: "+state)
		}
		return &guard{variable: variable, kind: guardIs, state: state}, nil

	default:
		return nil, badGuard(expr, "expression form not recognized")
	}
}

// eval resolves the guard against the host's registered results. Naming an
// unregistered variable is an error, not a false.
func (g *guard) eval(vars map[string]domain.TaskResult) (bool, error) {
	res, ok := vars[g.variable]
	if !ok {
		return false, zerr.With(domain.ErrUnknownVariable, "variable", g.variable)
	}

	switch g.kind {
	case guardRCEquals:
		return res.RC == g.rc, nil
	case guardRCNotEquals:
		return res.RC != g.rc, nil
	default:
		switch g.state {
		case "succeeded":
			return res.Succeeded(), nil
		case "failed":
			return res.Failed, nil
		default:
			return res.Skipped, nil
		}
	}
}

func badGuard(expr, reason string) error {
	err := zerr.With(domain.ErrBadGuard, "when", expr)
	return zerr.With(err, "reason", reason)
}
