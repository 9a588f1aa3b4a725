package translit

// vowel pairs an independent Devanagari vowel with its dependent sign.
// The inherent a has no sign.
type vowel struct {
	independent string
	sign        string
}

// iastVowels maps IAST vowel units to Devanagari.
var iastVowels = map[string]vowel{
	"a":  {"अ", ""},
	"ā":  {"आ", "ा"},
	"i":  {"इ", "ि"},
	"ī":  {"ई", "ी"},
	"u":  {"उ", "ु"},
	"ū":  {"ऊ", "ू"},
	"ṛ":  {"ऋ", "ृ"},
	"ṝ":  {"ॠ", "ॄ"},
	"ḷ":  {"ऌ", "ॢ"},
	"ḹ":  {"ॡ", "ॣ"},
	"e":  {"ए", "े"},
	"ai": {"ऐ", "ै"},
	"o":  {"ओ", "ो"},
	"au": {"औ", "ौ"},
}

// iastConsonants maps IAST consonant units to bare Devanagari consonants
// (with inherent a).
var iastConsonants = map[string]string{
	"k": "क", "kh": "ख", "g": "ग", "gh": "घ", "ṅ": "ङ",
	"c": "च", "ch": "छ", "j": "ज", "jh": "झ", "ñ": "ञ",
	"ṭ": "ट", "ṭh": "ठ", "ḍ": "ड", "ḍh": "ढ", "ṇ": "ण",
	"t": "त", "th": "थ", "d": "द", "dh": "ध", "n": "न",
	"p": "प", "ph": "फ", "b": "ब", "bh": "भ", "m": "म",
	"y": "य", "r": "र", "l": "ल", "v": "व",
	"ś": "श", "ṣ": "ष", "s": "स", "h": "ह",
	"ḻ": "ळ",
}

// iastMarks maps non-syllabic IAST units. ṁ is the older anusvara spelling.
var iastMarks = map[string]string{
	"ṃ":  "ं",
	"ṁ":  "ं",
	"ḥ":  "ः",
	"m̐": "ँ",
	"'":  "ऽ",
	"’":  "ऽ",
}

const virama = '्'

// maxIASTUnit is the longest IAST unit in runes.
const maxIASTUnit = 2

// Reverse tables, built once from the forward ones.
var (
	devConsonants = map[rune]string{}
	devVowels     = map[rune]string{}
	devVowelSigns = map[rune]string{}
	devMarks      = map[rune]string{}
)

func init() {
	for d := rune(0); d < 10; d++ {
		iastMarks[string('0'+d)] = string('०' + d)
	}
	for latin, dev := range iastConsonants {
		devConsonants[[]rune(dev)[0]] = latin
	}
	for latin, v := range iastVowels {
		devVowels[[]rune(v.independent)[0]] = latin
		if v.sign != "" {
			devVowelSigns[[]rune(v.sign)[0]] = latin
		}
	}
	for latin, dev := range iastMarks {
		switch latin {
		case "ṁ", "’":
			// Aliases; the canonical spelling wins on the way back.
			continue
		}
		devMarks[[]rune(dev)[0]] = latin
	}
}
