package room

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func TestGenerateRoomCodeFormat(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := generateRoomCode()
		assert.Regexp(t, codePattern, code)
	}
}

func TestUniqueRoomCodeRegeneratesOnCollision(t *testing.T) {
	var seen []string
	exists := func(code string) (bool, error) {
		seen = append(seen, code)
		// the first candidate is already taken
		return len(seen) == 1, nil
	}

	code, err := uniqueRoomCode(exists)
	require.NoError(t, err)
	assert.Regexp(t, codePattern, code)
	require.Len(t, seen, 2)
	assert.Equal(t, seen[1], code, "the regenerated code is the one returned")
}

func TestUniqueRoomCodeGivesUpWhenSpaceExhausted(t *testing.T) {
	attempts := 0
	exists := func(string) (bool, error) {
		attempts++
		return true, nil
	}

	_, err := uniqueRoomCode(exists)
	assert.Error(t, err)
	assert.Equal(t, 10, attempts)
}

func TestUniqueRoomCodeSurfacesLookupErrors(t *testing.T) {
	exists := func(string) (bool, error) {
		return false, fmt.Errorf("connection refused")
	}

	_, err := uniqueRoomCode(exists)
	assert.ErrorContains(t, err, "failed to check room code")
}
