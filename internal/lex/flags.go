package lex

// Flag is one bit of the normalization flag set (spec data model §3).
type Flag uint8

const (
	NoComments Flag = 1 << iota
	NoSpaces
	Uppercase
	NoLiterals
	CommentsOnly
)

// FlagSet is the combination of Flags requested for one normalize() call.
type FlagSet Flag

func (f FlagSet) Has(flag Flag) bool {
	return Flag(f)&flag != 0
}

// Validate enforces the two flag invariants from the data model:
// NoSpaces requires NoComments, and CommentsOnly is exclusive of every
// other flag. Violations must fail before any input is read.
func (f FlagSet) Validate() error {
	if f.Has(NoSpaces) && !f.Has(NoComments) {
		return ConfigError{Message: "NO_SPACES cannot be used without NO_COMMENTS"}
	}
	if f.Has(CommentsOnly) && Flag(f) != CommentsOnly {
		return ConfigError{Message: "COMMENTS_ONLY is mutually exclusive with every other flag"}
	}
	return nil
}

// Full is the fixed flag set the predicates (C5) run normalize() with.
func Full() FlagSet {
	return FlagSet(NoComments | NoSpaces | Uppercase | NoLiterals)
}
