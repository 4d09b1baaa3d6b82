package quran

const (
	SurahCount = 114
	JuzCount   = 30
	TotalAyat  = 6236
)

type Surah struct {
	ID        int    `json:"id" db:"id" boil:"id"`
	SurahName string `json:"surahName" db:"surah_name" boil:"surah_name"`
	JuzNumber int    `json:"juzNumber" db:"juz_number" boil:"juz_number"`
	TotalAyat int    `json:"totalAyat" db:"total_ayat" boil:"total_ayat"`
}

// Surahs returns a copy of the reference table, ordered by ID.
func Surahs() []Surah {
	all := make([]Surah, len(surahs))
	copy(all, surahs[:])
	return all
}

// Lookup finds a surah in the reference table.
func Lookup(id int) (Surah, bool) {
	if id < 1 || id > len(surahs) {
		return Surah{}, false
	}
	return surahs[id-1], true
}
