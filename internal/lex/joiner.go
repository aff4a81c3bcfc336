package lex

// join is C4: it assembles the bytes to emit for one before/joining/after
// split of a line, applying the whitespace-collapsing rules that keep a
// declaration prefix canonical while leaving literal and body content
// alone. ctx is the lexical context active at the split point; isOpen is
// true when the split is opening a new context (the "joining" slice is
// the token that starts it) and false when it is closing one or simply
// passing through unmatched text.
func join(s *State, before, joining, after []byte, ctx Context, isOpen bool) []byte {
	if !s.Flags.Has(NoSpaces) && (s.AsFound || s.Wrapped || (ctx == CtxComment && s.Flags.Has(CommentsOnly))) {
		return concat(before, joining, after)
	}

	spanning := ctx == CtxObjectName || ctx == CtxLiteral || ctx == CtxComment

	if !spanning || isOpen {
		before = collapseSpace(before)
	}
	if !spanning {
		joining = collapseSpace(joining)
	}

	if !isOpen && endsWithSpace(before) {
		joining = trimSpaceLeft(joining)
	}

	head := concat(before, joining)
	if !isOpen && len(joining) > 0 && endsWithSpace(head) && startsWithSpace(after) {
		head = trimSpaceRight(head)
	}

	return concat(head, after)
}

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
