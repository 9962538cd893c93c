// Package parser turns the engine's text model format into a model.Model,
// without embedding any solving policy. It is deliberately tolerant: BOM and
// non-breaking spaces are stripped, comments are dropped, decimal commas are
// accepted, and relation tokens may be glued to their right-hand side.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"lpdss/internal/solver/model"
)

// relToken matches a relation operator, optionally glued to a following
// number (e.g. "<=12" or ">= 12").
var relToken = regexp.MustCompile(`(<=|>=|=|≤|≥)`)

var signSynonyms = map[string]model.SignRestriction{
	"+":      model.NonNeg,
	"pos":    model.NonNeg,
	"nonneg": model.NonNeg,
	"-":      model.NonPos,
	"neg":    model.NonPos,
	"nonpos": model.NonPos,
	"urs":    model.Free,
	"free":   model.Free,
	"int":    model.Integer,
	"integer": model.Integer,
	"bin":    model.Binary,
	"binary": model.Binary,
}

// ParseError carries the normalized input text alongside the failure reason,
// so a caller can echo both for diagnosis (spec: "bad-input with normalized
// text echoed for diagnosis").
type ParseError struct {
	Reason     string
	Normalized string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parser: %s", e.Reason)
}

// Normalize strips a BOM, converts non-breaking spaces to regular spaces,
// drops comments, and trims trailing whitespace from every line, leaving
// blank lines in place (callers filter those out when scanning for
// meaningful lines). Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	text = strings.TrimPrefix(text, string(rune(0xFEFF)))
	text = strings.ReplaceAll(text, " ", " ")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, ",", ".")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		out = append(out, strings.TrimSpace(line))
	}
	return strings.Join(out, "\n")
}

// meaningfulLines returns the non-blank lines of an already-normalized text.
func meaningfulLines(normalized string) []string {
	var out []string
	for _, line := range strings.Split(normalized, "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Parse reads the engine's text model format and returns a Model.
// On any malformed input it returns a *ParseError carrying the normalized
// text for the caller to echo back.
func Parse(text string) (*model.Model, error) {
	normalized := Normalize(text)
	lines := meaningfulLines(normalized)
	if len(lines) < 2 {
		return nil, &ParseError{Reason: "model must have at least an objective line and a sign-restriction line", Normalized: normalized}
	}

	dir, objCoeffs, err := parseObjective(lines[0])
	if err != nil {
		return nil, &ParseError{Reason: err.Error(), Normalized: normalized}
	}
	n := len(objCoeffs)
	if n == 0 {
		return nil, &ParseError{Reason: "objective row is empty", Normalized: normalized}
	}

	constraintLines := lines[1 : len(lines)-1]
	signLine := lines[len(lines)-1]

	constraints := make([]model.Constraint, 0, len(constraintLines))
	for i, line := range constraintLines {
		c, err := parseConstraint(line, n)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("constraint %d: %v", i, err), Normalized: normalized}
		}
		constraints = append(constraints, c)
	}

	signs, err := parseSignLine(signLine, n)
	if err != nil {
		return nil, &ParseError{Reason: err.Error(), Normalized: normalized}
	}

	variables := make([]model.Variable, n)
	for i := 0; i < n; i++ {
		variables[i] = model.Variable{
			Name:  fmt.Sprintf("x%d", i+1),
			Coeff: objCoeffs[i],
			Sign:  signs[i],
		}
	}

	m := &model.Model{Direction: dir, Variables: variables, Constraints: constraints}
	if err := m.Validate(); err != nil {
		return nil, &ParseError{Reason: err.Error(), Normalized: normalized}
	}
	return m, nil
}

func parseObjective(line string) (model.Direction, []float64, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, nil, fmt.Errorf("objective line missing")
	}
	var dir model.Direction
	switch strings.ToLower(fields[0]) {
	case "max":
		dir = model.Max
	case "min":
		dir = model.Min
	default:
		return 0, nil, fmt.Errorf("unknown direction token %q (expected max/min)", fields[0])
	}

	coeffs := make([]float64, 0, len(fields)-1)
	for _, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, nil, fmt.Errorf("non-numeric objective coefficient %q", f)
		}
		coeffs = append(coeffs, v)
	}
	return dir, coeffs, nil
}

// parseConstraint splits a line into n coefficients, a relation, and a RHS.
// The relation may be glued to the RHS ("<=12") or space-separated.
func parseConstraint(line string, n int) (model.Constraint, error) {
	loc := relToken.FindStringIndex(line)
	if loc == nil {
		return model.Constraint{}, fmt.Errorf("missing relation operator")
	}

	left := strings.TrimSpace(line[:loc[0]])
	opTok := line[loc[0]:loc[1]]
	right := strings.TrimSpace(line[loc[1]:])
	if right == "" {
		return model.Constraint{}, fmt.Errorf("missing right-hand side")
	}

	fields := strings.Fields(left)
	if len(fields) != n {
		return model.Constraint{}, fmt.Errorf("expected %d coefficients, got %d", n, len(fields))
	}
	coeffs := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return model.Constraint{}, fmt.Errorf("non-numeric coefficient %q", f)
		}
		coeffs[i] = v
	}

	rhs, err := strconv.ParseFloat(right, 64)
	if err != nil {
		return model.Constraint{}, fmt.Errorf("non-numeric right-hand side %q", right)
	}

	var rel model.Relation
	switch opTok {
	case "<=", "≤":
		rel = model.LE
	case ">=", "≥":
		rel = model.GE
	case "=":
		rel = model.EQ
	default:
		return model.Constraint{}, fmt.Errorf("unknown relation token %q", opTok)
	}

	return model.Constraint{Coeffs: coeffs, Rel: rel, RHS: rhs}, nil
}

// ChangeRHS locates the k-th line containing a relation token (skipping
// comments and the sign line) in the raw, un-normalized text and rewrites
// its right-hand side, preserving the line's own spacing everywhere else.
// k is 0-based.
func ChangeRHS(text string, k int, newRHS float64) (string, error) {
	lines := strings.Split(text, "\n")
	constraintLineIdx := constraintLineIndices(lines)
	if k < 0 || k >= len(constraintLineIdx) {
		return "", fmt.Errorf("parser: constraint index %d out of range (have %d constraints)", k, len(constraintLineIdx))
	}

	li := constraintLineIdx[k]
	line := lines[li]
	loc := relToken.FindStringIndex(line)
	if loc == nil {
		return "", fmt.Errorf("parser: internal error locating relation token on line %d", li)
	}

	// Find the RHS span: from the end of the relation token (skipping any
	// glued whitespace) to the end of the numeric token, leaving a trailing
	// comment (if any) untouched.
	rest := line[loc[1]:]
	trimmed := strings.TrimLeft(rest, " \t")
	leadWS := rest[:len(rest)-len(trimmed)]

	end := len(trimmed)
	for i, r := range trimmed {
		if !isNumberRune(r) {
			end = i
			break
		}
	}
	if end == 0 {
		return "", fmt.Errorf("parser: no numeric right-hand side found on line %d", li)
	}

	newLine := line[:loc[1]] + leadWS + formatRHS(newRHS) + trimmed[end:]
	lines[li] = newLine
	return strings.Join(lines, "\n"), nil
}

// AddConstraint inserts newConstraintLine immediately before the sign line
// of text.
func AddConstraint(text string, newConstraintLine string) (string, error) {
	lines := strings.Split(text, "\n")
	signIdx := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if meaningful(lines[i]) {
			signIdx = i
			break
		}
	}
	if signIdx < 0 {
		return "", fmt.Errorf("parser: no sign-restriction line found to insert before")
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:signIdx]...)
	out = append(out, newConstraintLine)
	out = append(out, lines[signIdx:]...)
	return strings.Join(out, "\n"), nil
}

// constraintLineIndices returns, in order, the indices into lines of every
// line that survives comment-stripping to something non-blank containing a
// relation token, excluding the final such line (the sign line never
// contains one, so this simply mirrors Parse's constraintLines/signLine
// split over raw, non-normalized text).
func constraintLineIndices(lines []string) []int {
	var candidates []int
	for i, raw := range lines {
		line := stripComment(raw)
		if strings.TrimSpace(line) == "" {
			continue
		}
		if relToken.MatchString(line) {
			candidates = append(candidates, i)
		}
	}
	return candidates
}

func stripComment(line string) string {
	if i := strings.Index(line, "#"); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	return line
}

func meaningful(line string) bool {
	return strings.TrimSpace(stripComment(line)) != ""
}

func isNumberRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E'
}

func formatRHS(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	return s
}

// parseSignLine accepts either one token per variable or a single token
// broadcast to all variables.
func parseSignLine(line string, n int) ([]model.SignRestriction, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("sign-restriction line is empty")
	}
	if len(fields) != 1 && len(fields) != n {
		return nil, fmt.Errorf("expected 1 or %d sign tokens, got %d", n, len(fields))
	}

	resolve := func(tok string) (model.SignRestriction, error) {
		s, ok := signSynonyms[strings.ToLower(tok)]
		if !ok {
			return 0, fmt.Errorf("unknown sign token %q", tok)
		}
		return s, nil
	}

	out := make([]model.SignRestriction, n)
	if len(fields) == 1 {
		s, err := resolve(fields[0])
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = s
		}
		return out, nil
	}
	for i, f := range fields {
		s, err := resolve(f)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
