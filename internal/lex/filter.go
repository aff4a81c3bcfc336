package lex

import (
	"bytes"
	"unicode"
)

// appendObjectName feeds a slice of ObjectName-context bytes into the
// accumulator (C3's object-name construction substate). Non-ASCII
// bytes in the candidate name are rejected per spec §4.3.
func appendObjectName(s *State, line []byte) error {
	toAppend := bytes.ToUpper(line)
	if s.ObjectNameRemoveQuotes {
		toAppend = bytes.ReplaceAll(toAppend, []byte(`"`), nil)
	}

	// Outside the quoted span itself, only the first whitespace-delimited
	// token belongs to the name; re-derive whether more text may follow
	// from whether this slice contains any whitespace at all. This is
	// what lets accumulation stop cleanly once the declaration moves
	// past the (possibly unquoted) name into AS/IS or WRAPPED.
	if s.Context != CtxObjectName {
		toAppend = firstToken(toAppend)
		s.ObjectNameAppend = anySpace.Match(line)
	}

	if len(toAppend) > 0 {
		if !isAllASCII(toAppend) {
			return EncodingError{Pos: s.pos(), Message: "non-ASCII characters found in possible object name"}
		}
		s.ObjectName += string(toAppend)
	}
	return nil
}

// filterContent is C3: given a byte slice and the current state, it
// returns the bytes that should actually be emitted.
func filterContent(s *State, line []byte) ([]byte, error) {
	if s.Flags.Has(CommentsOnly) {
		if s.Context == CtxComment {
			return line, nil
		}
		if s.ObjectNameAppend {
			if err := appendObjectName(s, line); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	if s.Context == CtxComment {
		if s.Flags.Has(NoComments) {
			return nil, nil
		}
		if !s.AsFound && !s.Wrapped {
			return nil, nil
		}
		return line, nil
	}

	if !s.CreateFound {
		return nil, nil
	}

	if s.ObjectNameAppend {
		if err := appendObjectName(s, line); err != nil {
			return nil, err
		}
	}

	if s.Context == CtxObjectName {
		out := line
		if s.Flags.Has(Uppercase) || (s.CreateFound && !s.AsFound) {
			out = bytes.ToUpper(out)
		}
		if s.ObjectNameRemoveQuotes {
			out = bytes.ReplaceAll(out, []byte(`"`), nil)
		}
		return out, nil
	}

	if s.Context == CtxLiteral {
		if s.Flags.Has(NoLiterals) {
			return nil, nil
		}
		return line, nil
	}

	out := line
	if startsWithUpperCreate(out) {
		out = trimSpaceLeft(out)
	}
	if s.Flags.Has(Uppercase) || (s.CreateFound && !s.AsFound) {
		out = bytes.ToUpper(out)
	}
	if s.Flags.Has(NoSpaces) || (s.CreateFound && !s.AsFound) {
		out = collapseSpace(out)
	}
	return out, nil
}

func startsWithUpperCreate(line []byte) bool {
	trimmed := bytes.TrimLeftFunc(line, unicode.IsSpace)
	return bytes.HasPrefix(bytes.ToUpper(trimmed), []byte("CREATE"))
}
