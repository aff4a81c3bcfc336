package plsqlnorm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHelloProcedure(t *testing.T) {
	n := NewNormalizer()
	out, err := n.Normalize(
		[]byte("CREATE OR REPLACE PROCEDURE hello AS BEGIN null; END;\n"),
		FlagSet(NoComments|NoSpaces|Uppercase), 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "CREATE OR REPLACE PROCEDURE HELLO AS "), string(out))
	assert.True(t, strings.HasSuffix(string(out), " /"), string(out))
}

func TestNormalizeCommentsOnlyExtraction(t *testing.T) {
	n := NewNormalizer()
	out, err := n.Normalize(
		[]byte("-- top comment\nCREATE PACKAGE p AS x number; END;\n"),
		FlagSet(CommentsOnly), 0)
	require.NoError(t, err)
	assert.Equal(t, "-- top comment\n", string(out))
}

func TestNormalizeNoLiteralsStripsBody(t *testing.T) {
	n := NewNormalizer()
	out, err := n.Normalize(
		[]byte("CREATE FUNCTION f RETURN number AS BEGIN RETURN 'it''s'; END;\n"),
		FlagSet(NoLiterals), 0)
	require.NoError(t, err)
	assert.Contains(t, string(out), "RETURN ''")
}

func TestIsSQLPredicate(t *testing.T) {
	n := NewNormalizer()
	assert.True(t, n.IsSQLBytes([]byte("CREATE PROCEDURE p AS BEGIN null; END;\n")))
	assert.False(t, n.IsSQLBytes([]byte("-- just a comment\n")))
}

func TestIsWrappablePredicate(t *testing.T) {
	n := NewNormalizer()
	assert.True(t, n.IsWrappableBytes([]byte("CREATE PROCEDURE p AS BEGIN null; END;\n")))
	assert.False(t, n.IsWrappableBytes([]byte("CREATE TRIGGER t AS BEGIN null; END;\n")))
}

func TestIsWrappedPredicateFalseForPlainSource(t *testing.T) {
	n := NewNormalizer()
	assert.False(t, n.IsWrappedBytes([]byte("CREATE PROCEDURE p AS BEGIN null; END;\n")))
}

func TestNormalizeEmptyInputIsMissingObjectMetadata(t *testing.T) {
	n := NewNormalizer()
	_, err := n.Normalize(nil, FlagSet(0), 0)
	require.Error(t, err)
	_, ok := err.(MissingObjectMetadata)
	assert.True(t, ok, "expected MissingObjectMetadata, got %T", err)
}

func TestNormalizeRejectsConflictingFlags(t *testing.T) {
	n := NewNormalizer()
	_, err := n.Normalize([]byte("CREATE PROCEDURE p AS BEGIN null; END;\n"), FlagSet(NoSpaces), 0)
	require.Error(t, err)
	_, ok := err.(ConfigError)
	assert.True(t, ok, "expected ConfigError, got %T", err)
}
