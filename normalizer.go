package plsqlnorm

import (
	"bytes"
	"io"
	"os"

	"github.com/alecthomas/repr"
	"github.com/sirupsen/logrus"

	"github.com/vegvisir-data/plsqlnorm/internal/lex"
)

// Normalizer runs the normalization pass (C1-C4) over PL/SQL source
// (spec §6). State is created fresh inside each call, so one Normalizer
// can be shared safely across goroutines; only the logger field is
// read concurrently.
type Normalizer struct {
	// Log receives one debug-level entry per NormalizationError a
	// predicate discards, per the design notes' requirement to expose
	// a debug channel for the legacy silent-failure behavior. Nil
	// disables logging.
	Log *logrus.Logger
}

// NewNormalizer returns a Normalizer that logs discarded predicate
// errors through logrus's standard logger.
func NewNormalizer() *Normalizer {
	return &Normalizer{Log: logrus.StandardLogger()}
}

// Normalize runs normalize() over input and returns the transformed
// bytes. lineLimit, when positive, truncates processing after that
// many physical lines and suppresses the statement terminator.
func (n *Normalizer) Normalize(input []byte, flags FlagSet, lineLimit int) ([]byte, error) {
	var out bytes.Buffer
	err := lex.Normalize(bytes.NewReader(input), &out, lex.FileRef("<memory>"), flags, lineLimit)
	return out.Bytes(), err
}

// NormalizeStream runs normalize() against an arbitrary reader/writer
// pair, for callers who already have a stream rather than a []byte.
func (n *Normalizer) NormalizeStream(r io.Reader, w io.Writer, file string, flags FlagSet, lineLimit int) error {
	return lex.Normalize(r, w, lex.FileRef(file), flags, lineLimit)
}

// NormalizePath reads path, normalizes it, and either returns the
// result or writes it to writeTo when non-empty.
func (n *Normalizer) NormalizePath(path string, flags FlagSet, lineLimit int, writeTo string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ResourceError{Message: "opening " + path, Err: err}
	}
	defer f.Close()

	var out bytes.Buffer
	if err := lex.Normalize(f, &out, lex.FileRef(path), flags, lineLimit); err != nil {
		return nil, err
	}

	if writeTo != "" {
		if err := os.WriteFile(writeTo, out.Bytes(), 0o644); err != nil {
			return nil, ResourceError{Message: "writing " + writeTo, Err: err}
		}
		return nil, nil
	}
	return out.Bytes(), nil
}

func (n *Normalizer) logDiscarded(err error) {
	if n.Log == nil || err == nil {
		return
	}
	n.Log.WithError(err).WithField("detail", repr.String(err)).Debug("predicate discarded a normalization error")
}

// IsSQL is C5's is_sql predicate: a full normalization pass succeeds
// and leaves a complete object declaration behind.
func (n *Normalizer) IsSQL(r io.Reader) bool {
	term, ok := n.terminal(r)
	return ok && term.CreateFound && term.ObjectType != "" && term.ObjectName != ""
}

// IsSQLBytes is the []byte convenience form of IsSQL.
func (n *Normalizer) IsSQLBytes(b []byte) bool {
	return n.IsSQL(bytes.NewReader(b))
}

// IsWrapped is C5's is_wrapped predicate.
func (n *Normalizer) IsWrapped(r io.Reader) bool {
	term, ok := n.terminal(r)
	return ok && term.CreateFound && term.ObjectType != "" && term.ObjectName != "" && term.Wrapped
}

// IsWrappedBytes is the []byte convenience form of IsWrapped.
func (n *Normalizer) IsWrappedBytes(b []byte) bool {
	return n.IsWrapped(bytes.NewReader(b))
}

var wrappableObjectTypes = map[string]bool{
	"PROCEDURE":    true,
	"FUNCTION":     true,
	"PACKAGE BODY": true,
}

// IsWrappable is C5's is_wrappable predicate.
func (n *Normalizer) IsWrappable(r io.Reader) bool {
	term, ok := n.terminal(r)
	return ok && term.CreateFound && term.ObjectType != "" && term.ObjectName != "" &&
		term.AsFound && wrappableObjectTypes[term.ObjectType]
}

// IsWrappableBytes is the []byte convenience form of IsWrappable.
func (n *Normalizer) IsWrappableBytes(b []byte) bool {
	return n.IsWrappable(bytes.NewReader(b))
}

// terminal runs the fixed-flag-set pass the predicates share, folding
// any NormalizationError into ok=false after logging it at debug
// level — the legacy behavior the design notes call out to preserve.
func (n *Normalizer) terminal(r io.Reader) (lex.Terminal, bool) {
	term, err := lex.RunForTerminal(r, lex.FileRef("<predicate>"))
	if err != nil {
		n.logDiscarded(err)
		return term, false
	}
	return term, true
}
