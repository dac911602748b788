// Package absence holds the pure derived-data computations behind the
// attendance views: roster grouping, absence lookups, the division dashboard
// and multi-day reports. Nothing in this package performs I/O or keeps state
// between calls.
package absence

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/noah-isme/sma-absence-api/internal/models"
)

// KeySeparator joins the id and name halves of an identity key.
const KeySeparator = "::"

// IdentityKey normalises an (id, name) pair into the join key used between
// the roster and attendance history.
func IdentityKey(id, name string) string {
	return normaliseID(id) + KeySeparator + strings.ToLower(strings.TrimSpace(name))
}

// IdentityKeyOf accepts any scalar id (numbers included).
func IdentityKeyOf(id interface{}, name string) string {
	return IdentityKey(cast.ToString(id), name)
}

// StudentKey returns the identity key of a roster entry.
func StudentKey(s models.Student) string {
	return IdentityKey(s.ID.String(), s.Name.String())
}

// RecordKey returns the identity key of an attendance row.
func RecordKey(r models.AttendanceRecord) string {
	return IdentityKey(r.StudentID.String(), r.Name.String())
}

// SplitKey breaks an identity key back into its id and name halves.
func SplitKey(key string) (id, name string) {
	id, name, _ = strings.Cut(key, KeySeparator)
	return id, name
}

func normaliseID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
