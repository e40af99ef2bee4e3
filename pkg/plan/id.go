package plan

import (
	"strings"

	"github.com/google/uuid"
)

// namespace roots every element id.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/chazu/floorplan"))

// ID identifies a plan element. IDs are name-based UUIDs (version 5), so
// the same element path always yields the same ID across evaluations.
type ID uuid.UUID

// NewID derives an ID from a slash-joined element path such as
// "wall/south" or "opening/south/0".
func NewID(path ...string) ID {
	return ID(uuid.NewSHA1(namespace, []byte(strings.Join(path, "/"))))
}

// ParseID parses the canonical UUID text form.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, err
	}
	return ID(u), nil
}

// IsZero reports whether id is unset.
func (id ID) IsZero() bool {
	return id == ID{}
}

// String returns the canonical UUID form.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Short returns the first 8 hex characters, for log and error messages.
func (id ID) Short() string {
	return id.String()[:8]
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(b); err != nil {
		return err
	}
	*id = ID(u)
	return nil
}
