// Package intent decides what a player is trying to do. A Keyword matcher
// answers the unambiguous cases for free; AIAssisted consults the model
// only when the keywords are not decisive.
package intent

import (
	"context"
	"strings"
	"unicode"

	"io73k/classify"
)

type Intent string

// Classifier maps player input to an intent.
type Classifier interface {
	Classify(ctx context.Context, input string) Intent
}

// Rule is an intent and the words or phrases that announce it.
type Rule struct {
	Intent  Intent
	Phrases []string
}

// Keyword is the deterministic tier.
type Keyword struct {
	Rules   []Rule
	Default Intent
}

// Match returns the intent of the single rule that matches input. Input
// matching no rule or several rules is ambiguous.
func (k Keyword) Match(input string) (Intent, bool) {
	text := words(input)
	var found Intent
	matches := 0
	for _, r := range k.Rules {
		if containsAny(text, r.Phrases) {
			found = r.Intent
			matches++
		}
	}
	if matches != 1 {
		return "", false
	}
	return found, true
}

func (k Keyword) Classify(_ context.Context, input string) Intent {
	if in, ok := k.Match(input); ok {
		return in
	}
	return k.Default
}

// Oracle answers categorical questions, usually a *classify.Classifier.
type Oracle interface {
	Choose(ctx context.Context, q classify.Categorical) string
}

// AIAssisted tries Keyword first and falls back to the model.
type AIAssisted struct {
	Keyword  Keyword
	Oracle   Oracle
	System   string
	Options  []Intent
	Fallback Intent
}

func (a AIAssisted) Classify(ctx context.Context, input string) Intent {
	if in, ok := a.Keyword.Match(input); ok {
		return in
	}
	if a.Oracle == nil {
		return a.Fallback
	}

	opts := make([]string, len(a.Options))
	for i, o := range a.Options {
		opts[i] = string(o)
	}
	return Intent(a.Oracle.Choose(ctx, classify.Categorical{
		System:   a.System,
		Input:    input,
		Options:  opts,
		Fallback: string(a.Fallback),
	}))
}

// words lowercases input and reduces it to space separated words with a
// leading and trailing space, so phrases match on word boundaries.
func words(input string) string {
	fields := strings.FieldsFunc(strings.ToLower(input), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '’'
	})
	return " " + strings.ReplaceAll(strings.Join(fields, " "), "’", "'") + " "
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, " "+p+" ") {
			return true
		}
	}
	return false
}

// Mentions reports whether input contains any of phrases as whole words.
func Mentions(input string, phrases ...string) bool {
	return containsAny(words(input), phrases)
}
