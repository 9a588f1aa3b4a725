// Package translit converts Sanskrit text between IAST romanization and
// Devanagari.
//
// IAST input is NFC-normalized and lower-cased before conversion, so
// decomposed diacritics (m + U+0323) and capitals convert the same as their
// precomposed lower-case forms. Runes outside the scheme, such as the '+'
// used to join split parts, pass through unchanged.
//
// All functions are safe for concurrent use by multiple goroutines.
package translit

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrInvalidInput indicates the text is not valid UTF-8.
	ErrInvalidInput = errors.New("translit: invalid input")

	// ErrUnsupportedScheme indicates an unknown scheme or scheme pair.
	ErrUnsupportedScheme = errors.New("translit: unsupported scheme")
)

// Scheme names a script or romanization.
type Scheme string

const (
	IAST       Scheme = "iast"
	Devanagari Scheme = "devanagari"
)

// ParseScheme resolves a scheme name, case-insensitively.
func ParseScheme(name string) (Scheme, error) {
	switch s := Scheme(strings.ToLower(strings.TrimSpace(name))); s {
	case IAST, Devanagari:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, name)
	}
}

// Convert transliterates text from one scheme to another.
// Converting a scheme to itself only validates and normalizes the input.
func Convert(text string, from, to Scheme) (string, error) {
	if !utf8.ValidString(text) {
		return "", ErrInvalidInput
	}
	text = norm.NFC.String(text)

	switch {
	case from == to && (from == IAST || from == Devanagari):
		return text, nil
	case from == IAST && to == Devanagari:
		return iastToDevanagari(text), nil
	case from == Devanagari && to == IAST:
		return devanagariToIAST(text), nil
	default:
		return "", fmt.Errorf("%w: %s to %s", ErrUnsupportedScheme, from, to)
	}
}

// Transliterator binds a scheme pair.
type Transliterator struct {
	From Scheme
	To   Scheme
}

// New returns a Transliterator for the given pair, rejecting unknown pairs.
func New(from, to Scheme) (Transliterator, error) {
	if _, err := Convert("", from, to); err != nil {
		return Transliterator{}, err
	}
	return Transliterator{From: from, To: to}, nil
}

// Convert transliterates text with the bound schemes.
func (t Transliterator) Convert(text string) (string, error) {
	return Convert(text, t.From, t.To)
}

func iastToDevanagari(s string) string {
	runes := []rune(strings.Map(unicode.ToLower, s))

	var b strings.Builder
	b.Grow(len(s) * 2)

	// pending is true while the last written consonant still carries its
	// inherent a: a following vowel becomes a sign, anything else a virama.
	pending := false
	for i := 0; i < len(runes); {
		unit, n := nextUnit(runes[i:])
		i += n

		if v, ok := iastVowels[unit]; ok {
			if pending {
				b.WriteString(v.sign)
			} else {
				b.WriteString(v.independent)
			}
			pending = false
			continue
		}

		if pending {
			b.WriteRune(virama)
		}
		if c, ok := iastConsonants[unit]; ok {
			b.WriteString(c)
			pending = true
			continue
		}
		pending = false
		if m, ok := iastMarks[unit]; ok {
			b.WriteString(m)
		} else {
			b.WriteString(unit)
		}
	}
	if pending {
		b.WriteRune(virama)
	}
	return b.String()
}

// nextUnit returns the longest IAST unit at the start of runes and its
// length in runes. Unknown runes are returned alone.
func nextUnit(runes []rune) (string, int) {
	for n := min(maxIASTUnit, len(runes)); n > 1; n-- {
		unit := string(runes[:n])
		if isIASTUnit(unit) {
			return unit, n
		}
	}
	return string(runes[0]), 1
}

func isIASTUnit(unit string) bool {
	if _, ok := iastVowels[unit]; ok {
		return true
	}
	if _, ok := iastConsonants[unit]; ok {
		return true
	}
	_, ok := iastMarks[unit]
	return ok
}

func devanagariToIAST(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pending := false
	for _, r := range s {
		if c, ok := devConsonants[r]; ok {
			if pending {
				b.WriteByte('a')
			}
			b.WriteString(c)
			pending = true
			continue
		}
		if v, ok := devVowelSigns[r]; ok {
			b.WriteString(v)
			pending = false
			continue
		}
		if r == virama {
			pending = false
			continue
		}

		if pending {
			b.WriteByte('a')
			pending = false
		}
		switch {
		case devVowels[r] != "":
			b.WriteString(devVowels[r])
		case devMarks[r] != "":
			b.WriteString(devMarks[r])
		default:
			b.WriteRune(r)
		}
	}
	if pending {
		b.WriteByte('a')
	}
	return b.String()
}
