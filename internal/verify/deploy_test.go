package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaSuffixIsStableForIdenticalInput(t *testing.T) {
	a := SchemaSuffix([]byte("CREATE PROCEDURE P AS BEGIN NULL; END;\n"))
	b := SchemaSuffix([]byte("CREATE PROCEDURE P AS BEGIN NULL; END;\n"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 12)
}

func TestSchemaSuffixDiffersForDifferentInput(t *testing.T) {
	a := SchemaSuffix([]byte("CREATE PROCEDURE P AS BEGIN NULL; END;\n"))
	b := SchemaSuffix([]byte("CREATE PROCEDURE Q AS BEGIN NULL; END;\n"))
	assert.NotEqual(t, a, b)
}

func TestSchemaNameIncludesSuffix(t *testing.T) {
	name, err := SchemaName("abc123")
	require.NoError(t, err)
	assert.Contains(t, name, "abc123")
	assert.Contains(t, name, "plsqlnorm_verify_")
}

func TestRewriteSchemaInsertsQualifierBeforeName(t *testing.T) {
	out, err := rewriteSchema([]byte("CREATE PROCEDURE HELLO AS BEGIN NULL; END;\n"), "[scratch].")
	require.NoError(t, err)
	assert.Equal(t, "CREATE PROCEDURE [scratch].HELLO AS BEGIN NULL; END;\n", string(out))
}

func TestRewriteSchemaHandlesOrReplaceAndPackageBody(t *testing.T) {
	out, err := rewriteSchema([]byte(`CREATE OR REPLACE PACKAGE BODY PKG AS END;`), `"scratch".`)
	require.NoError(t, err)
	assert.Equal(t, `CREATE OR REPLACE PACKAGE BODY "scratch".PKG AS END;`, string(out))
}

func TestRewriteSchemaRejectsUnrecognizedInput(t *testing.T) {
	_, err := rewriteSchema([]byte("SELECT 1"), "[scratch].")
	require.Error(t, err)
}
