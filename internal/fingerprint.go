package internal

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint returns the sha256 hex digest of the canonical JSON form of
// payload. Map keys are sorted at every depth, so two payloads that differ
// only in key order share a fingerprint. Structs are canonicalized through
// their JSON field names.
func Fingerprint(payload any) (string, error) {
	raw, err := CanonicalJSON(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// CanonicalJSON serializes v with sorted keys, no HTML escaping and no
// trailing newline.
func CanonicalJSON(v any) ([]byte, error) {
	generic, err := toGeneric(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// toGeneric round-trips v through JSON so that structs become maps, whose
// keys encoding/json always emits in sorted order. Numbers keep their
// literal form.
func toGeneric(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("failed to normalize payload: %w", err)
	}
	return generic, nil
}
