package security

import (
	"regexp"

	"go.uber.org/zap"
)

const (
	repeatedCharRun    = 21 // same rune this many times in a row
	urlCountThreshold  = 3
	repeatedPatternLen = 10 // longest substring checked for back-to-back repeats
	repeatedPatternMin = 6  // total consecutive occurrences that trip the check
)

var (
	// A long run of characters outside the broad "normal text" class:
	// word characters, whitespace and extended Latin letters.
	specialRunPattern = regexp.MustCompile(`[^\w\s\x{00C0}-\x{024F}\x{1E00}-\x{1EFF}]{30,}`)
	urlPattern        = regexp.MustCompile(`https?://`)
)

// validateMessage rejects over-long messages and a fixed set of
// suspicious content shapes, checked in order with first match winning.
// Aside from the event log it is a pure function of its input.
func (g *Guard) validateMessage(text, userID string) (bool, Reason) {
	if n := len([]rune(text)); n > g.cfg.MaxMessageLength {
		g.logEvent(userID, evMessageTooLong,
			zap.Int("length", n),
			zap.Int("max_length", g.cfg.MaxMessageLength))
		return false, ReasonMessageTooLong
	}
	if name, ok := suspiciousPattern(text); ok {
		g.logEvent(userID, evSuspiciousText,
			zap.String("pattern", name),
			zap.String("message", truncate(text, 100)))
		return false, ReasonSuspiciousContent
	}
	return true, ""
}

// suspiciousPattern runs the content heuristics. The repeated-character
// and repeated-substring checks need backreferences, which RE2 does not
// support, so they are explicit rune scans.
func suspiciousPattern(text string) (string, bool) {
	if hasRepeatedRun(text, repeatedCharRun) {
		return "repeated_chars", true
	}
	if specialRunPattern.MatchString(text) {
		return "too_many_special_chars", true
	}
	if len(urlPattern.FindAllStringIndex(text, -1)) >= urlCountThreshold {
		return "multiple_urls", true
	}
	if hasRepeatedSubstring(text, repeatedPatternLen, repeatedPatternMin) {
		return "repeated_patterns", true
	}
	return "", false
}

// hasRepeatedRun reports a run of n or more identical runes.
func hasRepeatedRun(text string, n int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if run > 0 && r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run >= n {
			return true
		}
	}
	return false
}

// hasRepeatedSubstring reports any substring of 1..maxLen runes repeated
// at least count times back to back. Message length is capped at 4000
// runes before this runs, so the quadratic worst case stays cheap.
func hasRepeatedSubstring(text string, maxLen, count int) bool {
	runes := []rune(text)
	for i := range runes {
		for l := 1; l <= maxLen && i+l*count <= len(runes); l++ {
			repeats := 1
			for j := i + l; j+l <= len(runes) && string(runes[j:j+l]) == string(runes[i:i+l]); j += l {
				repeats++
				if repeats >= count {
					return true
				}
			}
		}
	}
	return false
}
