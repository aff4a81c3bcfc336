package wrap

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWrappedFixture assembles a synthetic Oracle-wrapped stream from
// plaintext source, inverting the S-box and zlib-compressing so that
// Unwrap's decode step recovers exactly plaintext, before the leading
// object type is rewritten into the CREATE preamble. This is how a
// real `wrap` output
// is shaped (spec §6's "Wrapped-file format"), minus the SHA-1 header
// actually being meaningful (it is never validated on decode).
func buildWrappedFixture(t *testing.T, declaration string, plaintext string) string {
	t.Helper()

	var inverse [256]byte
	for i, v := range sBox {
		inverse[v] = byte(i)
	}

	var zbuf bytes.Buffer
	zw := zlib.NewWriter(&zbuf)
	_, err := zw.Write([]byte(plaintext))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	substituted := make([]byte, zbuf.Len())
	for i, b := range zbuf.Bytes() {
		substituted[i] = inverse[b]
	}

	raw := append(make([]byte, 20), substituted...) // fake, unvalidated SHA-1 header
	b64 := base64.StdEncoding.EncodeToString(raw)

	return fmt.Sprintf("%s\n0 %x\n%s\n", declaration, len(b64), b64)
}

func TestUnwrapRestoresSchemaQualifiedPreamble(t *testing.T) {
	plaintext := "PACKAGE BODY pkg IS\n  PROCEDURE p IS BEGIN NULL; END;\nEND pkg;\n"
	input := buildWrappedFixture(t, "CREATE OR REPLACE PACKAGE BODY SCHEMA.PKG WRAPPED", plaintext)

	var out bytes.Buffer
	err := Unwrap(strings.NewReader(input), &out)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "CREATE OR REPLACE PACKAGE BODY SCHEMA.pkg IS")
	assert.Contains(t, got, "PROCEDURE p IS BEGIN NULL")
}

func TestUnwrapUnqualifiedName(t *testing.T) {
	plaintext := "PROCEDURE hello IS\nBEGIN\n  NULL;\nEND;\n"
	input := buildWrappedFixture(t, "CREATE PROCEDURE HELLO WRAPPED", plaintext)

	var out bytes.Buffer
	err := Unwrap(strings.NewReader(input), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "CREATE PROCEDURE hello IS")
}

func TestUnwrapMultipleObjectsInOneStream(t *testing.T) {
	first := buildWrappedFixture(t, "CREATE PROCEDURE ONE WRAPPED", "PROCEDURE one IS\nBEGIN NULL; END;\n")
	second := buildWrappedFixture(t, "CREATE PROCEDURE TWO WRAPPED", "PROCEDURE two IS\nBEGIN NULL; END;\n")

	var out bytes.Buffer
	err := Unwrap(strings.NewReader(first+second), &out)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "CREATE PROCEDURE one IS")
	assert.Contains(t, got, "CREATE PROCEDURE two IS")
}

func TestUnwrapPlainInputIsNotWrapped(t *testing.T) {
	var out bytes.Buffer
	err := Unwrap(strings.NewReader("CREATE PROCEDURE p AS BEGIN NULL; END;\n"), &out)
	require.Error(t, err)
	_, ok := err.(NotWrapped)
	assert.True(t, ok, "expected NotWrapped, got %T", err)
}

func TestUnwrapTruncatedPayload(t *testing.T) {
	input := "CREATE PROCEDURE p WRAPPED\n0 1000\nYWJj\n"
	var out bytes.Buffer
	err := Unwrap(strings.NewReader(input), &out)
	require.Error(t, err)
	_, ok := err.(TruncatedPayload)
	assert.True(t, ok, "expected TruncatedPayload, got %T", err)
}
