package core

import (
	"fmt"

	"github.com/segmentio/ksuid"
)

// ID identifies a single execution of a task. IDs are ksuid-backed so they
// sort by creation time.
type ID string

func NewID() (ID, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate ID: %w", err)
	}
	return ID(id.String()), nil
}

// MustNewID panics if ID generation fails. Generation only fails when the
// system entropy source is unavailable.
func MustNewID() ID {
	id, err := NewID()
	if err != nil {
		panic(err)
	}
	return id
}

func (i ID) String() string {
	return string(i)
}

func (i ID) IsZero() bool {
	return i == ""
}
