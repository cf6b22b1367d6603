package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUse(t *testing.T) {
	assert.NoError(t, Use(""))
	assert.NoError(t, Use("Default"))
	assert.Error(t, Use("neon"))
}

func TestProgressBar(t *testing.T) {
	bar := ProgressBar(50, 10)
	assert.Equal(t, 5, strings.Count(bar, "█"))
	assert.Equal(t, 5, strings.Count(bar, "░"))
	assert.Contains(t, bar, " 50%")

	clamped := ProgressBar(150, 4)
	assert.Equal(t, 4, strings.Count(clamped, "█"))
	assert.Contains(t, clamped, "100%")
}
