package speech

import (
	"regexp"
	"strings"
)

// Normalize rewrites arbitrary generated prose (markdown, lists, symbols)
// into flat text a speech synthesizer can read aloud. The rules run in a
// fixed order; later rules assume earlier ones already ran. The pipeline is
// idempotent: the final text contains none of the markers the rules act on.
func Normalize(text string) string {
	// Emphasis markup: keep the inner text.
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = underlineRe.ReplaceAllString(text, "$1")
	text = codeRe.ReplaceAllString(text, "$1")

	// Ordered lists become spoken connectors.
	text = orderedNextRe.ReplaceAllString(text, ". Next, ")
	text = orderedFirstRe.ReplaceAllString(text, "First, ")

	// Unordered lists: drop leading bullets, join continuation bullets.
	text = bulletJoinRe.ReplaceAllString(text, ". Also, ")
	text = bulletLeadRe.ReplaceAllString(text, "")

	// Structural labels become spoken phrases.
	text = noteRe.ReplaceAllString(text, "Please note that ")
	text = importantRe.ReplaceAllString(text, "This is important: ")
	text = rememberRe.ReplaceAllString(text, "Remember that ")

	// Symbols a synthesizer would read out literally. Percent signs survive
	// this pass so the number rule below can spell them out.
	text = symbolRe.ReplaceAllString(text, "")
	text = spokenPunctRe.ReplaceAllString(text, "")

	// Separators.
	text = slashRe.ReplaceAllString(text, " or ")
	text = hyphenRe.ReplaceAllString(text, " ")

	// Numbers with units and percentages.
	text = numberUnitRe.ReplaceAllString(text, "$1 $2")
	text = percentRe.ReplaceAllString(text, "$1 percent")
	text = strings.ReplaceAll(text, "%", "")

	// Flatten whitespace.
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

var (
	boldRe      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe    = regexp.MustCompile(`\*(.*?)\*`)
	underlineRe = regexp.MustCompile(`_(.*?)_`)
	codeRe      = regexp.MustCompile("`(.*?)`")

	orderedNextRe  = regexp.MustCompile(`\n\s*\d+\. `)
	orderedFirstRe = regexp.MustCompile(`^\d+\. `)

	bulletJoinRe = regexp.MustCompile(`\n\s*[-•*+]\s+`)
	bulletLeadRe = regexp.MustCompile(`(?m)^\s*[-•*+]\s+`)

	noteRe      = regexp.MustCompile(`(?i)\bNote:\s*`)
	importantRe = regexp.MustCompile(`(?i)\bImportant:\s*`)
	rememberRe  = regexp.MustCompile(`(?i)\bRemember:\s*`)

	symbolRe      = regexp.MustCompile("[#$&@^`~|\\\\\\[\\]{}()<>\"']")
	spokenPunctRe = regexp.MustCompile(`[+=!?.,;:]`)

	slashRe  = regexp.MustCompile(`\s*/\s*`)
	hyphenRe = regexp.MustCompile(`\s*-\s*`)

	numberUnitRe = regexp.MustCompile(`\b(\d+)\s*(hours?|days?|weeks?|months?|years?)\b`)
	percentRe    = regexp.MustCompile(`(\d+)\s*%`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)
