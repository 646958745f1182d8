package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies an Assignment, Question or Option inside a test document.
//
// An ID is either Persisted (assigned by the backend) or Local (a
// provisional token minted by the client for an entity that has not been
// saved yet). Local IDs are never valid backend keys; they are replaced by
// persisted ones when the document is saved and reloaded.
//
// The zero value is neither and means "no identifier".
type ID struct {
	local     string
	persisted int64
}

// PersistedID returns a backend-assigned identifier.
func PersistedID(n int64) ID {
	return ID{persisted: n}
}

// LocalID returns a provisional identifier carrying an opaque token.
func LocalID(token string) ID {
	return ID{local: token}
}

// ParseID reads an identifier as typed by a user: digits are a persisted
// id, anything else is a local token.
func ParseID(s string) ID {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
		return PersistedID(n)
	}
	return LocalID(s)
}

// IsLocal reports whether the identifier is provisional.
func (id ID) IsLocal() bool { return id.local != "" }

// IsZero reports whether the identifier is unset.
func (id ID) IsZero() bool { return id.local == "" && id.persisted == 0 }

// Persisted returns the backend id, if any.
func (id ID) Persisted() (int64, bool) {
	if id.local != "" || id.persisted == 0 {
		return 0, false
	}
	return id.persisted, true
}

// Local returns the provisional token, if any.
func (id ID) Local() (string, bool) {
	return id.local, id.local != ""
}

func (id ID) String() string {
	switch {
	case id.local != "":
		return id.local
	case id.persisted != 0:
		return strconv.FormatInt(id.persisted, 10)
	default:
		return ""
	}
}

// MarshalJSON encodes persisted ids as numbers and local ids as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	switch {
	case id.local != "":
		return json.Marshal(id.local)
	case id.persisted != 0:
		return []byte(strconv.FormatInt(id.persisted, 10)), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a number, a string token or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ID{}
		return nil
	}
	if data[0] == '"' {
		var token string
		if err := json.Unmarshal(data, &token); err != nil {
			return fmt.Errorf("decode local id: %w", err)
		}
		*id = LocalID(token)
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("decode id %s: %w", data, err)
	}
	*id = PersistedID(n)
	return nil
}
