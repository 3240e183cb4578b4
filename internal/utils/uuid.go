package utils

import "github.com/google/uuid"

// UUIDGenerator issues the identifiers used for sessions and trace
// correlation. V7 identifiers are time-ordered, which keeps session logs
// sortable by creation time.
type UUIDGenerator struct{}

// NewUUIDGenerator returns a ready-to-use generator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a UUIDv7 string, falling back to a random v4 when the
// monotonic source is unavailable.
func (g *UUIDGenerator) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
