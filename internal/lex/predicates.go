package lex

import "io"

// Terminal is the declaration state left behind after a normalize()
// pass, consulted by the predicates (C5) in plsqlnorm.
type Terminal struct {
	CreateFound bool
	ObjectType  string
	ObjectName  string
	AsFound     bool
	Wrapped     bool
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// RunForTerminal runs the normalizer with the fixed flag set the
// predicates use (spec §4.5), discarding the output, and reports the
// resulting declaration state. Any NormalizationError (or a
// RecursionLimitError) is returned rather than swallowed here; the
// predicates in plsqlnorm are responsible for folding it into "false"
// and logging it at debug level, matching the legacy behavior the
// design notes call out to preserve.
func RunForTerminal(r io.Reader, file FileRef) (Terminal, error) {
	s := NewState(file, Full())
	err := normalizeInto(s, r, discardWriter{}, 0)
	return Terminal{
		CreateFound: s.CreateFound,
		ObjectType:  s.ObjectType,
		ObjectName:  s.ObjectName,
		AsFound:     s.AsFound,
		Wrapped:     s.Wrapped,
	}, err
}
