package quran

// surahs is the immutable QuranMeta reference table: id, name, juz where the surah starts, ayat count.
var surahs = [...]Surah{
	{ID: 1, SurahName: "Al-Fatihah", JuzNumber: 1, TotalAyat: 7},
	{ID: 2, SurahName: "Al-Baqarah", JuzNumber: 1, TotalAyat: 286},
	{ID: 3, SurahName: "Ali 'Imran", JuzNumber: 3, TotalAyat: 200},
	{ID: 4, SurahName: "An-Nisa'", JuzNumber: 4, TotalAyat: 176},
	{ID: 5, SurahName: "Al-Ma'idah", JuzNumber: 6, TotalAyat: 120},
	{ID: 6, SurahName: "Al-An'am", JuzNumber: 7, TotalAyat: 165},
	{ID: 7, SurahName: "Al-A'raf", JuzNumber: 8, TotalAyat: 206},
	{ID: 8, SurahName: "Al-Anfal", JuzNumber: 9, TotalAyat: 75},
	{ID: 9, SurahName: "At-Taubah", JuzNumber: 10, TotalAyat: 129},
	{ID: 10, SurahName: "Yunus", JuzNumber: 11, TotalAyat: 109},
	{ID: 11, SurahName: "Hud", JuzNumber: 11, TotalAyat: 123},
	{ID: 12, SurahName: "Yusuf", JuzNumber: 12, TotalAyat: 111},
	{ID: 13, SurahName: "Ar-Ra'd", JuzNumber: 13, TotalAyat: 43},
	{ID: 14, SurahName: "Ibrahim", JuzNumber: 13, TotalAyat: 52},
	{ID: 15, SurahName: "Al-Hijr", JuzNumber: 14, TotalAyat: 99},
	{ID: 16, SurahName: "An-Nahl", JuzNumber: 14, TotalAyat: 128},
	{ID: 17, SurahName: "Al-Isra'", JuzNumber: 15, TotalAyat: 111},
	{ID: 18, SurahName: "Al-Kahf", JuzNumber: 15, TotalAyat: 110},
	{ID: 19, SurahName: "Maryam", JuzNumber: 16, TotalAyat: 98},
	{ID: 20, SurahName: "Taha", JuzNumber: 16, TotalAyat: 135},
	{ID: 21, SurahName: "Al-Anbiya'", JuzNumber: 17, TotalAyat: 112},
	{ID: 22, SurahName: "Al-Hajj", JuzNumber: 17, TotalAyat: 78},
	{ID: 23, SurahName: "Al-Mu'minun", JuzNumber: 18, TotalAyat: 118},
	{ID: 24, SurahName: "An-Nur", JuzNumber: 18, TotalAyat: 64},
	{ID: 25, SurahName: "Al-Furqan", JuzNumber: 18, TotalAyat: 77},
	{ID: 26, SurahName: "Asy-Syu'ara'", JuzNumber: 19, TotalAyat: 227},
	{ID: 27, SurahName: "An-Naml", JuzNumber: 19, TotalAyat: 93},
	{ID: 28, SurahName: "Al-Qasas", JuzNumber: 20, TotalAyat: 88},
	{ID: 29, SurahName: "Al-'Ankabut", JuzNumber: 20, TotalAyat: 69},
	{ID: 30, SurahName: "Ar-Rum", JuzNumber: 21, TotalAyat: 60},
	{ID: 31, SurahName: "Luqman", JuzNumber: 21, TotalAyat: 34},
	{ID: 32, SurahName: "As-Sajdah", JuzNumber: 21, TotalAyat: 30},
	{ID: 33, SurahName: "Al-Ahzab", JuzNumber: 21, TotalAyat: 73},
	{ID: 34, SurahName: "Saba'", JuzNumber: 22, TotalAyat: 54},
	{ID: 35, SurahName: "Fatir", JuzNumber: 22, TotalAyat: 45},
	{ID: 36, SurahName: "Yasin", JuzNumber: 22, TotalAyat: 83},
	{ID: 37, SurahName: "As-Saffat", JuzNumber: 23, TotalAyat: 182},
	{ID: 38, SurahName: "Sad", JuzNumber: 23, TotalAyat: 88},
	{ID: 39, SurahName: "Az-Zumar", JuzNumber: 23, TotalAyat: 75},
	{ID: 40, SurahName: "Gafir", JuzNumber: 24, TotalAyat: 85},
	{ID: 41, SurahName: "Fussilat", JuzNumber: 24, TotalAyat: 54},
	{ID: 42, SurahName: "Asy-Syura", JuzNumber: 25, TotalAyat: 53},
	{ID: 43, SurahName: "Az-Zukhruf", JuzNumber: 25, TotalAyat: 89},
	{ID: 44, SurahName: "Ad-Dukhan", JuzNumber: 25, TotalAyat: 59},
	{ID: 45, SurahName: "Al-Jasiyah", JuzNumber: 25, TotalAyat: 37},
	{ID: 46, SurahName: "Al-Ahqaf", JuzNumber: 26, TotalAyat: 35},
	{ID: 47, SurahName: "Muhammad", JuzNumber: 26, TotalAyat: 38},
	{ID: 48, SurahName: "Al-Fath", JuzNumber: 26, TotalAyat: 29},
	{ID: 49, SurahName: "Al-Hujurat", JuzNumber: 26, TotalAyat: 18},
	{ID: 50, SurahName: "Qaf", JuzNumber: 26, TotalAyat: 45},
	{ID: 51, SurahName: "Az-Zariyat", JuzNumber: 26, TotalAyat: 60},
	{ID: 52, SurahName: "At-Tur", JuzNumber: 27, TotalAyat: 49},
	{ID: 53, SurahName: "An-Najm", JuzNumber: 27, TotalAyat: 62},
	{ID: 54, SurahName: "Al-Qamar", JuzNumber: 27, TotalAyat: 55},
	{ID: 55, SurahName: "Ar-Rahman", JuzNumber: 27, TotalAyat: 78},
	{ID: 56, SurahName: "Al-Waqi'ah", JuzNumber: 27, TotalAyat: 96},
	{ID: 57, SurahName: "Al-Hadid", JuzNumber: 27, TotalAyat: 29},
	{ID: 58, SurahName: "Al-Mujadilah", JuzNumber: 28, TotalAyat: 22},
	{ID: 59, SurahName: "Al-Hasyr", JuzNumber: 28, TotalAyat: 24},
	{ID: 60, SurahName: "Al-Mumtahanah", JuzNumber: 28, TotalAyat: 13},
	{ID: 61, SurahName: "As-Saff", JuzNumber: 28, TotalAyat: 14},
	{ID: 62, SurahName: "Al-Jumu'ah", JuzNumber: 28, TotalAyat: 11},
	{ID: 63, SurahName: "Al-Munafiqun", JuzNumber: 28, TotalAyat: 11},
	{ID: 64, SurahName: "At-Tagabun", JuzNumber: 28, TotalAyat: 18},
	{ID: 65, SurahName: "At-Talaq", JuzNumber: 28, TotalAyat: 12},
	{ID: 66, SurahName: "At-Tahrim", JuzNumber: 28, TotalAyat: 12},
	{ID: 67, SurahName: "Al-Mulk", JuzNumber: 29, TotalAyat: 30},
	{ID: 68, SurahName: "Al-Qalam", JuzNumber: 29, TotalAyat: 52},
	{ID: 69, SurahName: "Al-Haqqah", JuzNumber: 29, TotalAyat: 52},
	{ID: 70, SurahName: "Al-Ma'arij", JuzNumber: 29, TotalAyat: 44},
	{ID: 71, SurahName: "Nuh", JuzNumber: 29, TotalAyat: 28},
	{ID: 72, SurahName: "Al-Jinn", JuzNumber: 29, TotalAyat: 28},
	{ID: 73, SurahName: "Al-Muzzammil", JuzNumber: 29, TotalAyat: 20},
	{ID: 74, SurahName: "Al-Muddassir", JuzNumber: 29, TotalAyat: 56},
	{ID: 75, SurahName: "Al-Qiyamah", JuzNumber: 29, TotalAyat: 40},
	{ID: 76, SurahName: "Al-Insan", JuzNumber: 29, TotalAyat: 31},
	{ID: 77, SurahName: "Al-Mursalat", JuzNumber: 29, TotalAyat: 50},
	{ID: 78, SurahName: "An-Naba'", JuzNumber: 30, TotalAyat: 40},
	{ID: 79, SurahName: "An-Nazi'at", JuzNumber: 30, TotalAyat: 46},
	{ID: 80, SurahName: "'Abasa", JuzNumber: 30, TotalAyat: 42},
	{ID: 81, SurahName: "At-Takwir", JuzNumber: 30, TotalAyat: 29},
	{ID: 82, SurahName: "Al-Infitar", JuzNumber: 30, TotalAyat: 19},
	{ID: 83, SurahName: "Al-Mutaffifin", JuzNumber: 30, TotalAyat: 36},
	{ID: 84, SurahName: "Al-Insyiqaq", JuzNumber: 30, TotalAyat: 25},
	{ID: 85, SurahName: "Al-Buruj", JuzNumber: 30, TotalAyat: 22},
	{ID: 86, SurahName: "At-Tariq", JuzNumber: 30, TotalAyat: 17},
	{ID: 87, SurahName: "Al-A'la", JuzNumber: 30, TotalAyat: 19},
	{ID: 88, SurahName: "Al-Gasyiyah", JuzNumber: 30, TotalAyat: 26},
	{ID: 89, SurahName: "Al-Fajr", JuzNumber: 30, TotalAyat: 30},
	{ID: 90, SurahName: "Al-Balad", JuzNumber: 30, TotalAyat: 20},
	{ID: 91, SurahName: "Asy-Syams", JuzNumber: 30, TotalAyat: 15},
	{ID: 92, SurahName: "Al-Lail", JuzNumber: 30, TotalAyat: 21},
	{ID: 93, SurahName: "Ad-Duha", JuzNumber: 30, TotalAyat: 11},
	{ID: 94, SurahName: "Asy-Syarh", JuzNumber: 30, TotalAyat: 8},
	{ID: 95, SurahName: "At-Tin", JuzNumber: 30, TotalAyat: 8},
	{ID: 96, SurahName: "Al-'Alaq", JuzNumber: 30, TotalAyat: 19},
	{ID: 97, SurahName: "Al-Qadr", JuzNumber: 30, TotalAyat: 5},
	{ID: 98, SurahName: "Al-Bayyinah", JuzNumber: 30, TotalAyat: 8},
	{ID: 99, SurahName: "Az-Zalzalah", JuzNumber: 30, TotalAyat: 8},
	{ID: 100, SurahName: "Al-'Adiyat", JuzNumber: 30, TotalAyat: 11},
	{ID: 101, SurahName: "Al-Qari'ah", JuzNumber: 30, TotalAyat: 11},
	{ID: 102, SurahName: "At-Takasur", JuzNumber: 30, TotalAyat: 8},
	{ID: 103, SurahName: "Al-'Asr", JuzNumber: 30, TotalAyat: 3},
	{ID: 104, SurahName: "Al-Humazah", JuzNumber: 30, TotalAyat: 9},
	{ID: 105, SurahName: "Al-Fil", JuzNumber: 30, TotalAyat: 5},
	{ID: 106, SurahName: "Quraisy", JuzNumber: 30, TotalAyat: 4},
	{ID: 107, SurahName: "Al-Ma'un", JuzNumber: 30, TotalAyat: 7},
	{ID: 108, SurahName: "Al-Kausar", JuzNumber: 30, TotalAyat: 3},
	{ID: 109, SurahName: "Al-Kafirun", JuzNumber: 30, TotalAyat: 6},
	{ID: 110, SurahName: "An-Nasr", JuzNumber: 30, TotalAyat: 3},
	{ID: 111, SurahName: "Al-Lahab", JuzNumber: 30, TotalAyat: 5},
	{ID: 112, SurahName: "Al-Ikhlas", JuzNumber: 30, TotalAyat: 4},
	{ID: 113, SurahName: "Al-Falaq", JuzNumber: 30, TotalAyat: 5},
	{ID: 114, SurahName: "An-Nas", JuzNumber: 30, TotalAyat: 6},
}
