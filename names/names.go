// Package names checks that a player name looks like a name and makes it
// safe to splice into a prompt.
package names

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default replaces a name that sanitizes to nothing.
const Default = "Player"

const (
	minLength = 2
	maxLength = 50
)

var fake = []string{
	"test", "asdf", "qwerty", "admin", "user", "guest", "anonymous", "anon",
	"none", "null", "undefined", "na", "n/a", "xxx", "aaa", "zzz", "fake",
	"notmyname", "noname", "nope", "lol", "lmao", "haha", "hehe", "bruh",
	"yeet", "sus", "ligma", "deez", "joe", "mama", "your mom", "yourmom",
	"fuck", "shit", "ass", "dick", "penis", "vagina", "poop", "fart", "butthole",
}

// Keyboard runs that are mashed rather than typed. Only names of four or
// more letters are checked against them, so Ada and Ed survive.
var rows = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm", "qaz", "wsx", "edc"}

// Validate reports whether name looks like a real name.
func Validate(name string) bool {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < minLength || n > maxLength {
		return false
	}

	var letters, digits, special int
	var upper, lower bool
	for _, r := range name {
		switch {
		case unicode.IsLetter(r):
			letters++
			upper = upper || unicode.IsUpper(r)
			lower = lower || unicode.IsLower(r)
		case unicode.IsDigit(r):
			digits++
		case unicode.IsSpace(r), r == '-', r == '\'':
		default:
			special++
		}
	}

	switch {
	case letters == 0, digits > letters, special > 2:
		return false
	case slices.Contains(fake, strings.ToLower(name)):
		return false
	case n > 4 && upper && !lower:
		return false
	}
	return !mashed(name)
}

func mashed(name string) bool {
	var prev rune
	run := 0
	for _, r := range name {
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run >= 4 {
			return true
		}
	}

	if utf8.RuneCountInString(name) < 4 {
		return false
	}
	lower := strings.ToLower(name)
	for _, row := range rows {
		if strings.Trim(lower, row) == "" {
			return true
		}
	}
	return false
}

// Sanitize strips line breaks and control characters, trims, and
// truncates to max runes. An empty result becomes Default.
func Sanitize(name string, max int) string {
	if max <= 0 {
		max = maxLength
	}
	clean := strings.Map(func(r rune) rune {
		switch {
		case r == '\r', r == '\n', r == '\t', r == '\u2028', r == '\u2029':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, name)
	clean = strings.TrimSpace(clean)

	if utf8.RuneCountInString(clean) > max {
		clean = strings.TrimSpace(string([]rune(clean)[:max]))
	}
	if clean == "" {
		return Default
	}
	return clean
}
