package letterfreq

import "unicode"

// Alphabet is the fixed set of tracked letters in enumeration order.
const Alphabet = "abcdefghijklmnopqrstuvwxyz"

// NumLetters is the number of buckets in every tally.
const NumLetters = len(Alphabet)

// Letter is one of the 26 lowercase Latin letters.
type Letter byte

// LetterOf returns the tracked letter for r after lowercasing it.
// The bool is false when the lowercase form lies outside the alphabet.
func LetterOf(r rune) (Letter, bool) {
	l := unicode.ToLower(r)
	if l < 'a' || l > 'z' {
		return 0, false
	}
	return Letter(l), true
}

// Valid reports whether l is in the tracked alphabet.
func (l Letter) Valid() bool {
	return l >= 'a' && l <= 'z'
}

func (l Letter) index() int {
	return int(l - 'a')
}

func (l Letter) String() string {
	return string(rune(l))
}
