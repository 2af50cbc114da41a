package selector

import (
	"fmt"
	"strings"
)

// Key is a parsed selector key.
type Key struct {
	Raw       string
	Namespace string // the field name for top-level keys
	Name      string // empty for top-level keys
}

// TopLevel reports whether k names a plain state field.
func (k Key) TopLevel() bool {
	return k.Name == ""
}

func (k Key) String() string {
	return k.Raw
}

// KeyError reports a selector key that is not `X` or `X.Y`.
type KeyError struct {
	Key     string
	Message string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("invalid selector key %q: %s", e.Key, e.Message)
}

// ParseKey parses raw into a Key. Only the shape is checked: any
// non-empty segment is accepted, since state field names come from
// arbitrary JSON or YAML documents.
func ParseKey(raw string) (Key, error) {
	if raw == "" {
		return Key{}, &KeyError{Key: raw, Message: "key cannot be empty"}
	}

	segments := strings.Split(raw, ".")
	if len(segments) > 2 {
		return Key{}, &KeyError{
			Key:     raw,
			Message: fmt.Sprintf("expected X or X.Y, got %d segments", len(segments)),
		}
	}

	for _, seg := range segments {
		if seg == "" {
			return Key{}, &KeyError{Key: raw, Message: "key contains empty segment"}
		}
	}

	key := Key{Raw: raw, Namespace: segments[0]}
	if len(segments) == 2 {
		key.Name = segments[1]
	}
	return key, nil
}

// ParseKeys parses every key, stopping at the first invalid one.
func ParseKeys(raws []string) ([]Key, error) {
	keys := make([]Key, 0, len(raws))
	for _, raw := range raws {
		key, err := ParseKey(raw)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
