package gateway

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SignatureField is the field carrying the digest in every gateway payload.
// It never participates in its own signature.
const SignatureField = "sign"

// Signer canonicalizes a field map into a deterministic byte string and
// digests it with the shared secret, per the gateway's signing protocol:
// keys in lexicographic order, values stringified and joined with ':',
// empty values skipped, secret appended last, SHA-256 over the result.
type Signer struct {
	secret string
}

// NewSigner creates a Signer bound to the shared secret
func NewSigner(secret string) *Signer {
	return &Signer{secret: secret}
}

// Sign produces the lowercase-hex digest for a field map
func (s *Signer) Sign(fields map[string]any) string {
	chunks := appendChunks(nil, fields)
	payload := strings.Join(chunks, ":") + ":" + s.secret
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Verify re-derives the digest and compares in constant time. Any panic
// during derivation and any length mismatch count as "not equal": signature
// checks fail closed, never open.
func (s *Signer) Verify(fields map[string]any, candidate string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	if candidate == "" {
		return false
	}

	expected := s.Sign(fields)
	if len(expected) != len(candidate) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(candidate)) == 1
}

// appendChunks walks a field map in sorted key order, appending each
// value's stringified chunks. Arrays are flattened element by element;
// nested objects recurse with their own keys sorted.
func appendChunks(chunks []string, fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == SignatureField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		chunks = appendValueChunks(chunks, fields[k])
	}
	return chunks
}

func appendValueChunks(chunks []string, value any) []string {
	switch v := value.(type) {
	case nil:
		return chunks
	case string:
		if strings.TrimSpace(v) == "" {
			return chunks
		}
		return append(chunks, v)
	case bool:
		return append(chunks, strconv.FormatBool(v))
	case int:
		return append(chunks, strconv.Itoa(v))
	case int64:
		return append(chunks, strconv.FormatInt(v, 10))
	case float64:
		return append(chunks, strconv.FormatFloat(v, 'f', -1, 64))
	case json.Number:
		return append(chunks, v.String())
	case map[string]any:
		return appendChunks(chunks, v)
	case map[string]string:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			chunks = appendValueChunks(chunks, v[k])
		}
		return chunks
	case []any:
		for _, elem := range v {
			chunks = appendValueChunks(chunks, elem)
		}
		return chunks
	case []map[string]any:
		for _, elem := range v {
			chunks = appendChunks(chunks, elem)
		}
		return chunks
	case []string:
		for _, elem := range v {
			chunks = appendValueChunks(chunks, elem)
		}
		return chunks
	case []int64:
		for _, elem := range v {
			chunks = append(chunks, strconv.FormatInt(elem, 10))
		}
		return chunks
	default:
		return append(chunks, fmt.Sprintf("%v", v))
	}
}
