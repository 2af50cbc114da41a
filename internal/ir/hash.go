package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainAction prefixes action record hashes. The version suffix allows a
// future algorithm migration without colliding with existing IDs.
const DomainAction = "statebind/action/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ActionID computes the content-addressed ID of a dispatched action.
// The same session, seq and action always produce the same ID.
func ActionID(sessionID string, seq int64, a Action) (string, error) {
	payload := a.Payload
	if payload == nil {
		payload = Object{}
	}
	obj := Object{
		"session": String(sessionID),
		"seq":     Int(seq),
		"type":    String(a.Type),
		"payload": payload,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ActionID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainAction, canonical), nil
}
