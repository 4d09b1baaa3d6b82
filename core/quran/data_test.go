package quran

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferenceTable(t *testing.T) {
	all := Surahs()
	assert.Len(t, all, SurahCount)

	var total int
	for i, s := range all {
		assert.Equal(t, i+1, s.ID, "surahs are ordered by ID")
		assert.True(t, s.JuzNumber >= 1 && s.JuzNumber <= JuzCount, "surah %d juz", s.ID)
		if i > 0 {
			assert.GreaterOrEqual(t, s.JuzNumber, all[i-1].JuzNumber, "juz never decreases")
		}
		total += s.TotalAyat
	}
	assert.Equal(t, TotalAyat, total)
}

func TestLookup(t *testing.T) {
	tests := []struct {
		id        int
		wantOK    bool
		wantName  string
		wantAyats int
	}{
		{id: 0},
		{id: 115},
		{id: 1, wantOK: true, wantName: "Al-Fatihah", wantAyats: 7},
		{id: 2, wantOK: true, wantName: "Al-Baqarah", wantAyats: 286},
		{id: 114, wantOK: true, wantName: "An-Nas", wantAyats: 6},
	}
	for _, tt := range tests {
		s, ok := Lookup(tt.id)
		assert.Equal(t, tt.wantOK, ok, "id %d", tt.id)
		assert.Equal(t, tt.wantName, s.SurahName, "id %d", tt.id)
		assert.Equal(t, tt.wantAyats, s.TotalAyat, "id %d", tt.id)
	}
}

func TestSurahsReturnsCopy(t *testing.T) {
	all := Surahs()
	all[0].SurahName = "changed"
	s, _ := Lookup(1)
	assert.Equal(t, "Al-Fatihah", s.SurahName)
}
