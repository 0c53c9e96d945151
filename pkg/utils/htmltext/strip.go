// ABOUTME: HTML utilities for stripping markup down to readable text
// ABOUTME: Used for feed entry bodies and inline HTML fragments across the application

package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

// Strip removes HTML markup from a fragment and returns its text
// content with collapsed whitespace. Script and style content is
// dropped entirely. Malformed markup is tolerated.
func Strip(fragment string) string {
	if fragment == "" {
		return ""
	}

	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skipDepth := 0

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return Collapse(b.String())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isSkipped(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isSkipped(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(tokenizer.Text())
				b.WriteByte(' ')
			}
		}
	}
}

// Collapse trims a string and collapses runs of whitespace into
// single spaces.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate cuts s to at most max runes without splitting a rune.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func isSkipped(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template":
		return true
	}
	return false
}
