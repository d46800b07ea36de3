package ids

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewIsUniqueAndSortable(t *testing.T) {
	earlier := New(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	later := New(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	assert.Len(t, earlier, 26)
	assert.True(t, earlier < later)
	assert.NotEqual(t, New(time.Time{}), New(time.Time{}))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(New(time.Now())))
	assert.False(t, Valid("not-a-ulid"))
	assert.False(t, Valid(""))
}
