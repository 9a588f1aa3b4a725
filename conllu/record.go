// Package conllu parses the token lines of DCS-style CoNLL-U files.
//
// Only three fields are read: the token id (a single integer or a
// start-end range), the surface form, and the Unsandhied attribute.
// Everything else on the line is ignored.
package conllu

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	tokenLinePattern  = regexp.MustCompile(`^(\d+(?:-\d+)?)\s+(\S+)\s+`)
	unsandhiedPattern = regexp.MustCompile(`Unsandhied=([^|\s]+)`)
)

// IDRange is the id span of a record. Single tokens have Start == End.
type IDRange struct {
	Start int
	End   int
}

// Contains reports whether id falls inside the range, bounds included.
func (r IDRange) Contains(id int) bool {
	return r.Start <= id && id <= r.End
}

func (r IDRange) String() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
}

// Record is one parsed token line.
type Record struct {
	ID            IDRange
	Form          string
	Unsandhied    string
	HasUnsandhied bool

	multiword bool
}

// IsMultiword reports whether the id was written as a range.
func (r Record) IsMultiword() bool {
	return r.multiword
}

// IsContinuation reports whether the surface form starts with an elision marker.
func (r Record) IsContinuation() bool {
	return HasElisionMarker(r.Form)
}

// HasElisionMarker reports whether s starts with an apostrophe-like marker.
func HasElisionMarker(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return isElisionMarker(r)
}

// TrimElisionMarker drops a single leading elision marker from s.
func TrimElisionMarker(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if isElisionMarker(r) {
		return s[size:]
	}
	return s
}

func isElisionMarker(r rune) bool {
	return r == '\'' || r == '’'
}

// ParseLine extracts a Record from a trimmed annotation line.
// ok is false when the line is not a token line.
func ParseLine(line string) (rec Record, ok bool) {
	m := tokenLinePattern.FindStringSubmatchIndex(line)
	if m == nil {
		return Record{}, false
	}
	idSpec := line[m[2]:m[3]]
	rec.Form = line[m[4]:m[5]]

	if start, end, isRange := strings.Cut(idSpec, "-"); isRange {
		s, err := strconv.Atoi(start)
		if err != nil {
			return Record{}, false
		}
		e, err := strconv.Atoi(end)
		if err != nil || s > e {
			return Record{}, false
		}
		rec.ID = IDRange{Start: s, End: e}
		rec.multiword = true
	} else {
		id, err := strconv.Atoi(idSpec)
		if err != nil {
			return Record{}, false
		}
		rec.ID = IDRange{Start: id, End: id}
	}

	if u := unsandhiedPattern.FindStringSubmatch(line[m[1]:]); u != nil {
		rec.Unsandhied = u[1]
		rec.HasUnsandhied = true
	}
	return rec, true
}

// NewSingle builds a single-token record. Mostly useful in tests.
func NewSingle(id int, form string) Record {
	return Record{ID: IDRange{Start: id, End: id}, Form: form}
}

// NewMultiword builds a multiword record covering start..end.
func NewMultiword(start, end int, form string) Record {
	return Record{ID: IDRange{Start: start, End: end}, Form: form, multiword: true}
}

// WithUnsandhied returns a copy of r carrying the given Unsandhied form.
func (r Record) WithUnsandhied(form string) Record {
	r.Unsandhied = form
	r.HasUnsandhied = true
	return r
}
