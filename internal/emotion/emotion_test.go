package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllHasSixteenUniqueLabels(t *testing.T) {
	got := All()
	assert.Len(t, got, 16)
	seen := map[Emotion]bool{}
	for _, e := range got {
		assert.False(t, seen[e], "duplicate %q", e)
		seen[e] = true
	}
	assert.Contains(t, got, Emotional)
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0] = "broken"
	assert.Equal(t, Happy, All()[0])
}

func TestParse(t *testing.T) {
	e, ok := Parse("chill")
	assert.True(t, ok)
	assert.Equal(t, Chill, e)

	_, ok = Parse("Chill")
	assert.False(t, ok)
	_, ok = Parse("")
	assert.False(t, ok)
}

func TestStringsMatchesAll(t *testing.T) {
	all := All()
	strs := Strings()
	assert.Len(t, strs, len(all))
	for i := range all {
		assert.Equal(t, string(all[i]), strs[i])
	}
}
