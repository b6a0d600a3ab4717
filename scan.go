package letterfreq

import "unicode/utf8"

// Scan decodes text as UTF-8 and calls inc once for every character whose
// lowercase form is a tracked letter. Everything else is skipped, including
// invalid byte sequences.
func Scan(text []byte, inc func(Letter)) {
	for len(text) > 0 {
		r, size := utf8.DecodeRune(text)
		text = text[size:]
		if r == utf8.RuneError {
			continue
		}
		if l, ok := LetterOf(r); ok {
			inc(l)
		}
	}
}

// Count returns the histogram of a single document.
func Count(text []byte) Counts {
	var c Counts
	Scan(text, func(l Letter) {
		c[l.index()]++
	})
	return c
}
