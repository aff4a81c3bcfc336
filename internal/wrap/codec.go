package wrap

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"io"
	"regexp"
	"strconv"

	"github.com/vegvisir-data/plsqlnorm/internal/lex"
)

var (
	declRe = regexp.MustCompile(`(?i)(?P<create_suffix>create\s+(?:or\s+replace\s+)?)(?P<object_type>package\s+body|package|procedure|function)\s+(?P<object_name>.*)\s+wrapped(?:\s+|$)`)

	commentRe = regexp.MustCompile(`(?s)(/\*.*?\*/|--[^\n]*?\n)`)

	wrapStartRe = regexp.MustCompile(`^[0-9a-f]+ ([0-9a-f]+)$`)

	wsRunRe = regexp.MustCompile(`\s+`)
)

// Unwrap decodes every Oracle-wrapped object found in r and writes the
// restored source to w (spec §4.6). A file may hold more than one
// wrapped object back to back; each is decoded and appended in turn.
func Unwrap(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)

	var decl []byte
	foundAny := false

	for {
		raw, rerr := br.ReadBytes('\n')
		if len(raw) == 0 {
			break
		}
		if rerr != nil && rerr != io.EOF {
			return lex.ResourceError{Message: "reading wrapped input", Err: rerr}
		}

		line := commentRe.ReplaceAll(raw, []byte(" "))
		line = bytes.TrimSpace(line)

		if len(line) == 0 {
			if rerr == io.EOF {
				break
			}
			continue
		}

		idx := declRe.FindSubmatchIndex(decl)
		if idx == nil {
			if len(decl) > 0 {
				decl = append(decl, ' ')
			}
			decl = append(decl, line...)
			decl = commentRe.ReplaceAll(decl, nil)
			if rerr == io.EOF {
				break
			}
			continue
		}

		groups := submatchGroups(declRe, decl, idx)
		decl = decl[idx[0]:idx[1]]

		objType := wsRunRe.ReplaceAll(bytes.ToUpper(groups["object_type"]), []byte(" "))
		objName := bytes.ToUpper(groups["object_name"])
		createPrefix := bytes.ToUpper(groups["create_suffix"])

		wrapMatch := wrapStartRe.FindSubmatch(line)
		if wrapMatch == nil {
			if rerr == io.EOF {
				break
			}
			continue
		}

		payloadLen, err := strconv.ParseInt(string(wrapMatch[1]), 16, 64)
		if err != nil {
			return CorruptPayload{Message: "malformed length header", Err: err}
		}

		payload, eof := readPayload(br, payloadLen)

		var declNext []byte
		if int64(len(payload)) > payloadLen {
			declNext = payload[payloadLen:]
			payload = payload[:payloadLen]
		}
		if int64(len(payload)) < payloadLen {
			return TruncatedPayload{Expected: int(payloadLen), Got: len(payload)}
		}

		decoded, derr := decodeBase64Package(bytes.ReplaceAll(payload, []byte("\n"), nil))
		if derr != nil {
			return derr
		}
		decoded = append(decoded, '\n')
		foundAny = true

		if bytes.HasPrefix(bytes.ToUpper(decoded), objType) {
			prefix := buildPrefix(createPrefix, objType, objName)
			leadRe := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(string(objType)) + `\s+`)
			decoded = leadRe.ReplaceAll(decoded, prefix)
			decoded = bytes.ReplaceAll(decoded, []byte{0}, nil)
		}

		if _, werr := w.Write(decoded); werr != nil {
			return lex.ResourceError{Message: "writing unwrapped output", Err: werr}
		}

		decl = declNext

		if rerr == io.EOF || eof {
			break
		}
	}

	if !foundAny {
		return NotWrapped{Message: "no wrapped declaration found in input"}
	}
	return nil
}

// submatchGroups maps named capture groups of re to the bytes they
// matched in src, given the index pairs FindSubmatchIndex returned.
func submatchGroups(re *regexp.Regexp, src []byte, idx []int) map[string][]byte {
	groups := make(map[string][]byte)
	for i, name := range re.SubexpNames() {
		if name == "" || idx[2*i] < 0 {
			continue
		}
		groups[name] = src[idx[2*i]:idx[2*i+1]]
	}
	return groups
}

// readPayload accumulates base64 payload bytes until payloadLen is
// reached or the stream ends, stripping \r as it goes. It reports
// whether it stopped because of end-of-stream.
func readPayload(br *bufio.Reader, payloadLen int64) ([]byte, bool) {
	var payload []byte
	for int64(len(payload)) < payloadLen {
		add, err := br.ReadBytes('\n')
		if len(add) == 0 {
			return payload, true
		}
		add = bytes.ReplaceAll(add, []byte("\r"), nil)
		payload = append(payload, add...)
		if err == io.EOF {
			return payload, true
		}
	}
	return payload, false
}

// buildPrefix reconstructs the restored CREATE preamble (spec §4.6
// step 5) from the captured declaration pieces.
func buildPrefix(createPrefix, objType, objName []byte) []byte {
	start := append(append([]byte{}, createPrefix...), objType...)
	start = bytes.TrimSpace(start)
	start = wsRunRe.ReplaceAll(start, []byte(" "))

	if bytes.Contains(objName, []byte(".")) {
		parts := bytes.Split(objName, []byte("."))
		var schema []byte
		quoted := false
		for _, p := range parts {
			if len(schema) > 0 {
				schema = append(append(append([]byte{}, schema...), '.'), p...)
			} else {
				schema = append([]byte{}, p...)
			}
			if bytes.Count(p, []byte(`"`))%2 == 1 {
				quoted = !quoted
			}
			if !quoted {
				break
			}
		}
		start = append(start, ' ')
		start = append(start, schema...)
		start = append(start, '.')
		return start
	}

	return append(start, ' ')
}

// decodeBase64Package is C6 step 4: base64-decode, drop the 20-byte
// SHA-1 header, run every remaining byte through the S-box, and
// zlib-inflate the result.
func decodeBase64Package(payload []byte) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(string(payload))
	if err != nil {
		return nil, CorruptPayload{Message: "invalid base64 payload", Err: err}
	}
	if len(raw) < 20 {
		return nil, TruncatedPayload{Expected: 20, Got: len(raw)}
	}
	raw = raw[20:]

	substituted := make([]byte, len(raw))
	for i, b := range raw {
		substituted[i] = sBox[b]
	}

	zr, err := zlib.NewReader(bytes.NewReader(substituted))
	if err != nil {
		return nil, CorruptPayload{Message: "zlib header invalid", Err: err}
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, CorruptPayload{Message: "zlib inflate failed", Err: err}
	}
	return out, nil
}
