package plsqlnorm

import "github.com/vegvisir-data/plsqlnorm/internal/lex"

// Flag and FlagSet are the normalization flag vocabulary (§3).
type (
	Flag    = lex.Flag
	FlagSet = lex.FlagSet
)

const (
	NoComments   = lex.NoComments
	NoSpaces     = lex.NoSpaces
	Uppercase    = lex.Uppercase
	NoLiterals   = lex.NoLiterals
	CommentsOnly = lex.CommentsOnly
)

// FullFlags is the fixed set {NO_COMMENTS, NO_SPACES, UPPERCASE,
// NO_LITERALS} the predicates (C5) run with.
func FullFlags() FlagSet {
	return lex.Full()
}

// CLIFullFlags is the fixed set {NO_COMMENTS, NO_SPACES, UPPERCASE} the
// CLI's --full flag expands to (spec §6). It deliberately excludes
// NO_LITERALS: unlike the predicates' fixed set, --full is meant to
// produce a readable, deployable normalization, not discard literal
// contents.
func CLIFullFlags() FlagSet {
	return FlagSet(NoComments | NoSpaces | Uppercase)
}
