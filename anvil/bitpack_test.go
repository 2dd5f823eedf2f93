package anvil

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackUnpackSection_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var section SectionBlocks
	for i := range section {
		section[i] = byte(rng.Intn(16))
	}

	words := PackSection(section)
	got := UnpackSection(words)

	assert.Equal(t, section, got)
}

func TestPackSection_AllAirIsAllZeroWords(t *testing.T) {
	var section SectionBlocks
	words := PackSection(section)
	for _, w := range words {
		assert.EqualValues(t, 0, w)
	}
}

func TestSectionIndex_XVariesFastest(t *testing.T) {
	assert.Equal(t, 0, SectionIndex(0, 0, 0))
	assert.Equal(t, 1, SectionIndex(1, 0, 0))
	assert.Equal(t, 16, SectionIndex(0, 0, 1))
	assert.Equal(t, 256, SectionIndex(0, 1, 0))
}
