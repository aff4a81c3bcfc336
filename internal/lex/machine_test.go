package lex

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalizeString(t *testing.T, input string, flags FlagSet) string {
	t.Helper()
	var out bytes.Buffer
	err := Normalize(strings.NewReader(input), &out, FileRef("test.sql"), flags, 0)
	require.NoError(t, err)
	return out.String()
}

func TestNormalizeHelloProcedure(t *testing.T) {
	out := normalizeString(t,
		"CREATE OR REPLACE PROCEDURE hello AS BEGIN null; END;\n",
		FlagSet(NoComments|NoSpaces|Uppercase))
	assert.True(t, strings.HasPrefix(out, "CREATE OR REPLACE PROCEDURE HELLO AS "), out)
	assert.True(t, strings.HasSuffix(out, " /"), out)
}

func TestNormalizeCommentsOnly(t *testing.T) {
	out := normalizeString(t,
		"-- top comment\nCREATE PACKAGE p AS x number; END;\n",
		FlagSet(CommentsOnly))
	assert.Equal(t, "-- top comment\n", out)
}

func TestNormalizeNoLiterals(t *testing.T) {
	out := normalizeString(t,
		"CREATE FUNCTION f RETURN number AS BEGIN RETURN 'it''s'; END;\n",
		FlagSet(NoLiterals))
	assert.Contains(t, out, "RETURN ''")
	assert.NotContains(t, out, "it''s")
}

func TestNormalizeQuotedObjectNameWithSpace(t *testing.T) {
	var out bytes.Buffer
	s := NewState(FileRef("test.sql"), FlagSet(0))
	err := normalizeInto(s, strings.NewReader(`CREATE PROCEDURE "My Proc" AS BEGIN null; END;`+"\n"), &out, 0)
	require.NoError(t, err)
	assert.Equal(t, `"MY PROC"`, s.ObjectName)
}

func TestNormalizePlainObjectNameUppercased(t *testing.T) {
	var out bytes.Buffer
	s := NewState(FileRef("test.sql"), FlagSet(0))
	err := normalizeInto(s, strings.NewReader("CREATE PROCEDURE plain AS BEGIN null; END;\n"), &out, 0)
	require.NoError(t, err)
	assert.Equal(t, "PLAIN", s.ObjectName)
}

func TestNormalizeEmptyInputFailsWithMissingMetadata(t *testing.T) {
	var out bytes.Buffer
	err := Normalize(strings.NewReader(""), &out, FileRef("test.sql"), FlagSet(0), 0)
	require.Error(t, err)
	_, ok := err.(MissingObjectMetadata)
	assert.True(t, ok, "expected MissingObjectMetadata, got %T", err)
}

func TestNormalizeCommentOnlyInputFailsWithMissingMetadata(t *testing.T) {
	var out bytes.Buffer
	err := Normalize(strings.NewReader("-- just a comment\n"), &out, FileRef("test.sql"), FlagSet(CommentsOnly), 0)
	require.Error(t, err)
	_, ok := err.(MissingObjectMetadata)
	assert.True(t, ok, "expected MissingObjectMetadata, got %T", err)
}

func TestFlagSetValidate(t *testing.T) {
	assert.NoError(t, FlagSet(NoComments|NoSpaces).Validate())
	assert.Error(t, FlagSet(NoSpaces).Validate())
	assert.NoError(t, FlagSet(CommentsOnly).Validate())
	assert.Error(t, FlagSet(CommentsOnly|Uppercase).Validate())
}

func TestNormalizeReplaceWithoutOrIsSyntaxError(t *testing.T) {
	var out bytes.Buffer
	err := Normalize(strings.NewReader("CREATE REPLACE PROCEDURE p AS BEGIN null; END;\n"), &out, FileRef("t.sql"), FlagSet(0), 0)
	require.Error(t, err)
	_, ok := err.(SyntaxError)
	assert.True(t, ok, "expected SyntaxError, got %T", err)
}

func TestNormalizeDuplicateObjectTypeIsUnsupported(t *testing.T) {
	var out bytes.Buffer
	err := Normalize(strings.NewReader("CREATE FUNCTION TRIGGER f AS BEGIN null; END;\n"), &out, FileRef("t.sql"), FlagSet(0), 0)
	require.Error(t, err)
	_, ok := err.(UnsupportedObjectType)
	assert.True(t, ok, "expected UnsupportedObjectType, got %T", err)
}

func TestNormalizePackageBodyCombination(t *testing.T) {
	var out bytes.Buffer
	s := NewState(FileRef("t.sql"), FlagSet(0))
	err := normalizeInto(s, strings.NewReader("CREATE PACKAGE BODY p AS BEGIN null; END;\n"), &out, 0)
	require.NoError(t, err)
	assert.Equal(t, "PACKAGE BODY", s.ObjectType)
}

func TestNormalizeNoSpacesRequiresNoComments(t *testing.T) {
	var out bytes.Buffer
	err := Normalize(strings.NewReader("CREATE PROCEDURE p AS BEGIN null; END;\n"), &out, FileRef("t.sql"), FlagSet(NoSpaces), 0)
	require.Error(t, err)
	_, ok := err.(ConfigError)
	assert.True(t, ok, "expected ConfigError, got %T", err)
}

func TestBracketLiteralClosesOnMatchingBracket(t *testing.T) {
	out := normalizeString(t,
		"CREATE FUNCTION f RETURN number AS BEGIN RETURN q'[a]b]'; END;\n",
		FlagSet(0))
	assert.Contains(t, out, "q'[a]b]'")
}

func TestWrappedBodyRejectsEmbeddedCreate(t *testing.T) {
	var s State
	sp := &s
	*sp = *NewState(FileRef("t.sql"), FlagSet(0))
	sp.CreateFound = true
	sp.ObjectType = "PROCEDURE"
	sp.ObjectName = "P"
	sp.Wrapped = true

	_, err := processLine(sp, []byte("create or replace nonsense\n"))
	require.Error(t, err)
	_, ok := err.(MalformedWrapped)
	assert.True(t, ok, "expected MalformedWrapped, got %T", err)
}
