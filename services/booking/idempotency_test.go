package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyKeyIsStable(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	a := IdempotencyKey("sess-1", start, "+34600000001")
	b := IdempotencyKey("sess-1", start, "+34600000001")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestIdempotencyKeyVariesPerInput(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	base := IdempotencyKey("sess-1", start, "+34600000001")
	assert.NotEqual(t, base, IdempotencyKey("sess-2", start, "+34600000001"))
	assert.NotEqual(t, base, IdempotencyKey("sess-1", start.Add(30*time.Minute), "+34600000001"))
	assert.NotEqual(t, base, IdempotencyKey("sess-1", start, "+34600000002"))
}

// The same instant expressed in different zones must hash identically, since
// clients may send either local or UTC timestamps for one slot.
func TestIdempotencyKeyNormalizesTimezone(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	utc := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	local := utc.In(madrid)

	assert.Equal(t,
		IdempotencyKey("sess-1", utc, "+34600000001"),
		IdempotencyKey("sess-1", local, "+34600000001"))
}
