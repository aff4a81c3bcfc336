package plsqlnorm

import (
	"github.com/vegvisir-data/plsqlnorm/internal/lex"
	"github.com/vegvisir-data/plsqlnorm/internal/wrap"
)

// Error types raised by the normalizer (§7). These are aliases onto the
// internal/lex definitions so callers can type-switch on them without
// reaching into an internal package.
type (
	ConfigError           = lex.ConfigError
	SyntaxError           = lex.SyntaxError
	UnsupportedObjectType = lex.UnsupportedObjectType
	MissingObjectMetadata = lex.MissingObjectMetadata
	MalformedWrapped      = lex.MalformedWrapped
	EncodingError         = lex.EncodingError
	RecursionLimitError   = lex.RecursionLimitError
	ResourceError         = lex.ResourceError
)

// NormalizationError is the closed set of errors the lexical state
// machine raises; a Normalize call can additionally return a
// ResourceError for an I/O failure. The predicates fold any error,
// of either kind, into false.
type NormalizationError = lex.NormalizationError

// Error types raised by the unwrap codec (§7).
type (
	NotWrapped       = wrap.NotWrapped
	TruncatedPayload = wrap.TruncatedPayload
	CorruptPayload   = wrap.CorruptPayload
)
