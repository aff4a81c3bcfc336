package lex

import (
	"regexp"
)

// Context names a recognized grammar element. The declaration-phase
// contexts (create, or, replace, object_type, as, wrapped) never
// persist past the matched token; the body contexts (object_name,
// literal, comment) open a lexical context that stays active until its
// end pattern is found, possibly spanning several lines.
type Context string

const (
	CtxNone       Context = ""
	CtxCreate     Context = "create"
	CtxOr         Context = "or"
	CtxReplace    Context = "replace"
	CtxObjectType Context = "object_type"
	CtxAs         Context = "as"
	CtxWrapped    Context = "wrapped"
	CtxObjectName Context = "object_name"
	CtxLiteral    Context = "literal"
	CtxComment    Context = "comment"
)

// bracketSubstitutes maps an alternate-delimiter literal's opening byte
// to the byte that closes it, e.g. q'[...]'. Delimiters outside this
// map close with themselves, e.g. q'!...!'.
var bracketSubstitutes = map[byte]byte{
	'[': ']',
	'{': '}',
	'<': '>',
	'(': ')',
}

// patternAlt is one alternative start/end pair within a named pattern.
// end is nil for declaration-phase keyword patterns, which never open a
// spanning context; makeEnd is set instead for the one pattern (the
// q'X literal) whose end is built dynamically from the matched start.
type patternAlt struct {
	start   *regexp.Regexp
	end     *regexp.Regexp
	makeEnd func(start []byte) *regexp.Regexp
}

// namedPattern is one entry of a pattern dictionary: a context label
// plus its ordered list of start/end alternatives.
type namedPattern struct {
	context Context
	alts    []patternAlt
}

// declarationPatterns are the CREATE declaration keywords. matchCombined
// searches them in every phase: before CREATE only a create match has
// an effect, and after AS/IS a CREATE, REPLACE or WRAPPED match is a
// syntax error while the others are ignored.
// Order matters: it is the tie-break order for match_earliest.
var declarationPatterns = []namedPattern{
	{CtxCreate, []patternAlt{{start: regexp.MustCompile(`(?i)(\s|^)create(\s|$)`)}}},
	{CtxOr, []patternAlt{{start: regexp.MustCompile(`(?i)(\s|^)or(\s|$)`)}}},
	{CtxReplace, []patternAlt{{start: regexp.MustCompile(`(?i)(\s|^)replace(\s|$)`)}}},
	{CtxObjectType, []patternAlt{{start: regexp.MustCompile(`(?i)(\s|^)(function|procedure|package|body|trigger)(\s|$)`)}}},
	{CtxAs, []patternAlt{{start: regexp.MustCompile(`(?i)(\s|^)(as|is)(\s|$)`)}}},
	{CtxWrapped, []patternAlt{{start: regexp.MustCompile(`(?i)(\s|^)wrapped(\s|$)`)}}},
}

// bodyPatterns are searched in every phase, declaration or body.
var bodyPatterns = []namedPattern{
	{CtxObjectName, []patternAlt{{
		start: regexp.MustCompile(`"`),
		end:   regexp.MustCompile(`"`),
	}}},
	{CtxLiteral, []patternAlt{
		{
			start: regexp.MustCompile(`(?i)q'(.)`),
			makeEnd: func(startMatch []byte) *regexp.Regexp {
				delim := startMatch[len(startMatch)-1]
				if close, ok := bracketSubstitutes[delim]; ok {
					delim = close
				}
				return regexp.MustCompile(regexp.QuoteMeta(string(delim)) + "'")
			},
		},
		{
			start: regexp.MustCompile(`'`),
			end:   regexp.MustCompile(`'`),
		},
	}},
	{CtxComment, []patternAlt{
		{
			start: regexp.MustCompile(`(\s|^)--`),
			end:   regexp.MustCompile(`\n`),
		},
		{
			start: regexp.MustCompile(`/\*`),
			end:   regexp.MustCompile(`\*/`),
		},
	}},
}

// matchResult is the earliest match found by matchEarliest/matchCombined.
type matchResult struct {
	context Context
	start   int
	stop    int
	end     *regexp.Regexp // nil for declaration-phase keyword matches
}

// matchEarliest returns the earliest match among the named patterns in
// dict, breaking ties by dict/alt iteration order (first found wins).
func matchEarliest(line []byte, dict []namedPattern) *matchResult {
	var best *matchResult
	for _, np := range dict {
		for _, alt := range np.alts {
			loc := alt.start.FindIndex(line)
			if loc == nil {
				continue
			}
			if best != nil && loc[0] >= best.start {
				continue
			}
			var end *regexp.Regexp
			switch {
			case alt.makeEnd != nil:
				end = alt.makeEnd(line[loc[0]:loc[1]])
			case alt.end != nil:
				end = alt.end
			}
			best = &matchResult{context: np.context, start: loc[0], stop: loc[1], end: end}
		}
	}
	return best
}

// matchCombined scans both the declaration and body pattern dictionaries
// and returns the overall earliest match.
func matchCombined(line []byte) *matchResult {
	best := matchEarliest(line, declarationPatterns)
	bodyMatch := matchEarliest(line, bodyPatterns)
	if bodyMatch != nil && (best == nil || bodyMatch.start < best.start) {
		best = bodyMatch
	}
	return best
}
