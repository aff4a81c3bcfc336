package lex

import (
	"bufio"
	"bytes"
	"io"

	"github.com/smasher164/xid"
)

// isWordOnly reports whether b holds nothing but identifier
// characters, the same Unicode identifier-continue class the
// teacher's own scanner recognizes object names by.
func isWordOnly(b []byte) bool {
	for _, r := range string(b) {
		if r == '_' || xid.Continue(r) {
			continue
		}
		return false
	}
	return true
}

// splitEntry is one before/joining boundary found while scanning a
// physical line. isOpen is true when joining opened a new context
// (object_name, literal, comment) or matched a declaration keyword;
// false when it closed an already-active context.
type splitEntry struct {
	before  []byte
	joining []byte
	ctx     Context
	isOpen  bool
}

// processLine is C2's per-line procedure (spec §4.2). The source
// expresses this as a function that recurses on the "after" remainder
// of each split and joins the result on the way back up; recursion
// depth there is proportional to the number of boundaries on the line.
// Here the forward scan is an explicit loop that records each split in
// order (mutating state exactly as the recursive version would, since
// filtering of "before"/"joining" always happens before moving on to
// "after"), and the join chain is folded back-to-front once the line's
// final, unmatched remainder is known. This keeps stack usage constant
// regardless of how many boundaries one line contains.
func processLine(s *State, line []byte) ([]byte, error) {
	if s.Wrapped {
		if matchEarliest(line, declarationPatterns) != nil {
			return nil, MalformedWrapped{Pos: s.pos(), Message: "declaration keyword found inside wrapped body"}
		}
		return filterContent(s, line)
	}

	var entries []splitEntry
	remaining := line

	for {
		if len(entries) > s.MaxSegments {
			return nil, RecursionLimitError{Pos: s.pos(), Depth: len(entries)}
		}

		if s.anythingStarted() {
			loc := s.EndPattern.FindIndex(remaining)
			if loc == nil {
				filtered, err := filterContent(s, remaining)
				if err != nil {
					return nil, err
				}
				return foldEntries(s, entries, filtered), nil
			}

			ctx := s.Context
			before := remaining[:loc[0]]
			joining := remaining[loc[0]:loc[1]]
			after := remaining[loc[1]:]

			filteredBefore, err := filterContent(s, before)
			if err != nil {
				return nil, err
			}
			filteredJoining, err := filterContent(s, joining)
			if err != nil {
				return nil, err
			}

			switch ctx {
			case CtxComment:
				if bytes.HasSuffix(joining, []byte("\n")) && (s.Flags.Has(NoComments) || (!s.AsFound && !s.Wrapped)) {
					after = append([]byte("\n"), after...)
				}
				if s.Flags.Has(CommentsOnly) && !bytes.HasSuffix(filteredJoining, []byte("\n")) {
					filteredJoining = append(append([]byte{}, filteredJoining...), '\n')
				}
			case CtxObjectName:
				s.ObjectNameRemoveQuotes = false
			}

			s.resetContext()
			entries = append(entries, splitEntry{before: filteredBefore, joining: filteredJoining, ctx: ctx, isOpen: false})
			remaining = after
			continue
		}

		match := matchCombined(remaining)
		if match == nil {
			if s.ObjectType != "" && s.ObjectName == "" {
				first := firstToken(remaining)
				if len(first) > 0 {
					if !isAllASCII(first) {
						return nil, EncodingError{Pos: s.pos(), Message: "non-ASCII characters found in possible object name"}
					}
					s.ObjectName = string(bytes.ToUpper(first))
				}
			}
			filtered, err := filterContent(s, remaining)
			if err != nil {
				return nil, err
			}
			return foldEntries(s, entries, filtered), nil
		}

		before := remaining[:match.start]
		joining := remaining[match.start:match.stop]
		after := remaining[match.stop:]

		filteredBefore, err := filterContent(s, before)
		if err != nil {
			return nil, err
		}

		if s.ObjectType != "" && s.ObjectName == "" {
			first := firstToken(before)
			if len(first) > 0 {
				if !isAllASCII(first) {
					return nil, EncodingError{Pos: s.pos(), Message: "non-ASCII characters found in possible object name"}
				}
				s.ObjectName = string(bytes.ToUpper(first))
			}
		}

		if err := dispatchOpen(s, match, joining, after); err != nil {
			return nil, err
		}

		var filteredJoining []byte
		if match.context == CtxLiteral && !s.Flags.Has(CommentsOnly) {
			filteredJoining = joining
		} else {
			filteredJoining, err = filterContent(s, joining)
			if err != nil {
				return nil, err
			}
		}

		entries = append(entries, splitEntry{before: filteredBefore, joining: filteredJoining, ctx: match.context, isOpen: true})
		remaining = after
	}
}

func foldEntries(s *State, entries []splitEntry, tail []byte) []byte {
	acc := tail
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		acc = join(s, e.before, e.joining, acc, e.ctx, e.isOpen)
	}
	return acc
}

// dispatchOpen mutates state for a newly-matched boundary (spec §4.2
// step 3's dispatch list) and reports grammar violations.
func dispatchOpen(s *State, m *matchResult, joining, after []byte) error {
	switch m.context {
	case CtxComment:
		s.Context, s.EndPattern = CtxComment, m.end
		return nil

	case CtxObjectName:
		s.Context, s.EndPattern = CtxObjectName, m.end
		if s.CreateFound && !s.AsFound {
			s.ObjectNameAppend = true
			if loc := m.end.FindIndex(after); loc != nil && isWordOnly(after[:loc[0]]) {
				s.ObjectNameRemoveQuotes = true
			}
		}
		return nil

	case CtxLiteral:
		s.Context, s.EndPattern = CtxLiteral, m.end
		return nil

	default:
		return dispatchDeclarationToken(s, m.context, joining)
	}
}

func dispatchDeclarationToken(s *State, ctx Context, joining []byte) error {
	if !s.CreateFound {
		if ctx == CtxCreate {
			s.CreateFound = true
		}
		return nil
	}

	if !s.AsFound {
		switch ctx {
		case CtxOr:
			s.OrFound = true
		case CtxReplace:
			if !s.OrFound {
				return SyntaxError{Pos: s.pos(), Message: "REPLACE found without a preceding OR"}
			}
			s.ReplaceFound = true
		case CtxObjectType:
			token := string(bytes.ToUpper(bytes.TrimSpace(joining)))
			switch {
			case s.ObjectType == "":
				s.ObjectType = token
			case s.ObjectType == "PACKAGE" && token == "BODY":
				s.ObjectType = "PACKAGE BODY"
			default:
				return UnsupportedObjectType{Pos: s.pos(), Prior: s.ObjectType, Got: token}
			}
		case CtxAs:
			if s.ObjectType == "" || s.ObjectName == "" {
				return SyntaxError{Pos: s.pos(), Message: "AS/IS found before object type and name are known"}
			}
			s.AsFound = true
		case CtxWrapped:
			if s.ObjectType == "" || s.ObjectName == "" {
				return SyntaxError{Pos: s.pos(), Message: "WRAPPED found before object type and name are known"}
			}
			s.Wrapped = true
		case CtxCreate:
			return SyntaxError{Pos: s.pos(), Message: "duplicate CREATE"}
		}
		return nil
	}

	switch ctx {
	case CtxCreate, CtxReplace, CtxWrapped:
		return SyntaxError{Pos: s.pos(), Message: "declaration keyword found in body phase"}
	}
	return nil
}

// Normalize is the outer normalize() loop (spec §6): it reads r line by
// line, drives processLine, inserts the declaration-phase inter-line
// separator, and appends the statement terminator. lineLimit, when
// positive, stops reading after that many physical lines and suppresses
// the terminator, per the truncation rule.
func Normalize(r io.Reader, w io.Writer, file FileRef, flags FlagSet, lineLimit int) error {
	if err := flags.Validate(); err != nil {
		return err
	}
	s := NewState(file, flags)
	return normalizeInto(s, r, w, lineLimit)
}

// normalizeInto runs the line loop against an already-constructed
// State, so predicates can inspect the terminal state even when the
// pass ends in a NormalizationError.
func normalizeInto(s *State, r io.Reader, w io.Writer, lineLimit int) error {
	br := bufio.NewReader(r)

	var out bytes.Buffer
	truncated := false

	for {
		if lineLimit > 0 && s.CurrentLine > lineLimit {
			truncated = true
			break
		}

		raw, err := br.ReadBytes('\n')
		if len(raw) == 0 {
			if err == io.EOF {
				break
			}
			if err != nil {
				return ResourceError{Message: "reading input", Err: err}
			}
		}

		// The join decision below must use the flags as they stood
		// before this line is parsed: AsFound/Wrapped can flip true
		// partway through processLine, but the join between the
		// previous chunk and this one was decided by the state the
		// scanner was in when the line started.
		asFoundBefore := s.AsFound
		wrappedBefore := s.Wrapped

		line := bytes.ReplaceAll(raw, []byte("\r"), nil)
		chunk, perr := processLine(s, line)
		if perr != nil {
			return perr
		}
		appendChunk(&out, s, asFoundBefore, wrappedBefore, chunk)

		s.CurrentLine++

		if err == io.EOF {
			break
		}
		if err != nil {
			return ResourceError{Message: "reading input", Err: err}
		}
	}

	if !s.CreateFound || s.ObjectType == "" || s.ObjectName == "" {
		return MissingObjectMetadata{Message: "reached end of input without a complete object declaration"}
	}

	if !truncated {
		appendTerminator(&out, s)
	}

	if _, err := w.Write(out.Bytes()); err != nil {
		return ResourceError{Message: "writing output", Err: err}
	}
	return nil
}

func appendChunk(out *bytes.Buffer, s *State, asFoundBefore, wrappedBefore bool, chunk []byte) {
	if out.Len() > 0 && len(chunk) > 0 {
		declPhase := !asFoundBefore && !wrappedBefore
		if (declPhase || s.Flags.Has(NoSpaces)) && !endsWithSpace(out.Bytes()) && !startsWithSpace(chunk) {
			out.WriteByte(' ')
		}
	}
	out.Write(chunk)
}

func appendTerminator(out *bytes.Buffer, s *State) {
	if s.Flags.Has(CommentsOnly) {
		return
	}
	if s.Flags.Has(NoSpaces) {
		out.WriteString(" /")
		return
	}
	out.WriteString("\n\n/")
}
