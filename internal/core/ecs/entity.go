package ecs

import (
	"bytes"
	"encoding/binary"

	"github.com/google/uuid"
)

// EntityID is a 128-bit random identity. IDs are never recycled: a destroyed
// entity's id stays dead forever, so stale references can never alias a new
// entity. This also keeps ids stable across save/load.
type EntityID uuid.UUID

var ZeroEntity EntityID

func NewEntityID() EntityID {
	return EntityID(uuid.New())
}

func ParseEntityID(s string) (EntityID, error) {
	u, err := uuid.Parse(s)
	return EntityID(u), err
}

func (id EntityID) String() string  { return uuid.UUID(id).String() }
func (id EntityID) IsZero() bool    { return id == ZeroEntity }
func (id EntityID) UUID() uuid.UUID { return uuid.UUID(id) }

// Less orders ids by their raw bytes. Systems iterate entities in this order
// so a tick produces the same event sequence on every run.
func (id EntityID) Less(other EntityID) bool {
	return bytes.Compare(id[:], other[:]) < 0
}

// Mod reduces the full 128-bit id modulo m. Used to stagger per-entity work
// across ticks; the stagger offset for a given id must never change.
func (id EntityID) Mod(m uint64) uint64 {
	if m == 0 {
		return 0
	}
	hi := binary.BigEndian.Uint64(id[:8])
	lo := binary.BigEndian.Uint64(id[8:])
	// (hi*2^64 + lo) mod m without overflow; operands stay tiny for the
	// small moduli used as update periods.
	shift := ((1 << 63 % m) * 2) % m
	return ((hi%m)*shift + lo%m) % m
}

func (id EntityID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *EntityID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}
