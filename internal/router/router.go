package router

import (
	"fmt"
	"regexp"
	"strings"
)

// Category classifies an incoming utterance. Anything that is not casual
// small talk is a knowledge query for the retrieval pipeline.
type Category int

const (
	Knowledge Category = iota
	Greeting
	StatusCheck
	Gratitude
	Farewell
	Capability
)

func (c Category) String() string {
	switch c {
	case Greeting:
		return "greeting"
	case StatusCheck:
		return "status-check"
	case Gratitude:
		return "gratitude"
	case Farewell:
		return "farewell"
	case Capability:
		return "capability"
	default:
		return "knowledge"
	}
}

// IsCasual reports whether the category is handled without retrieval.
func (c Category) IsCasual() bool { return c != Knowledge }

// Confidence is the heuristic verdict on a synthesized answer.
type Confidence int

const (
	Confident Confidence = iota
	LowConfidence
)

// casualPatterns are checked in priority order; the first match wins.
var casualPatterns = []struct {
	category Category
	re       *regexp.Regexp
}{
	{Greeting, regexp.MustCompile(`(?i)\b(hi|hello|hey|good morning|good afternoon|good evening)\b`)},
	{StatusCheck, regexp.MustCompile(`(?i)\b(how are you|what's up|how's it going)\b`)},
	{Gratitude, regexp.MustCompile(`(?i)\b(thank you|thanks)\b`)},
	{Farewell, regexp.MustCompile(`(?i)\b(bye|goodbye)\b`)},
	{Capability, regexp.MustCompile(`(?i)\b(what can you do|help me|what do you know)\b`)},
}

var negativeMarkers = []string{"don't know", "cannot"}

// Router classifies utterances and renders the reply instruction handed to
// the speech sink.
type Router struct {
	minAnswerLength int
}

func New(minAnswerLength int) *Router {
	if minAnswerLength <= 0 {
		minAnswerLength = 15
	}
	return &Router{minAnswerLength: minAnswerLength}
}

// Classify matches the utterance against the fixed casual phrase families.
// No match means the utterance is a knowledge query.
func (r *Router) Classify(text string) Category {
	for _, p := range casualPatterns {
		if p.re.MatchString(text) {
			return p.category
		}
	}
	return Knowledge
}

// AssessConfidence applies the answer heuristic: an answer is low
// confidence when its normalized form is shorter than the configured
// minimum or the raw text carries a negative-knowledge marker. Short but
// correct factual answers can be misclassified; that is a known property
// of the heuristic, kept as is.
func (r *Router) AssessConfidence(raw, normalized string) Confidence {
	if len(strings.TrimSpace(normalized)) < r.minAnswerLength {
		return LowConfidence
	}
	lower := strings.ToLower(raw)
	for _, marker := range negativeMarkers {
		if strings.Contains(lower, marker) {
			return LowConfidence
		}
	}
	return Confident
}

// CasualReply returns the fixed reply for a casual category.
func (r *Router) CasualReply(c Category) string {
	switch c {
	case Greeting:
		return "Hey there! I'm your campus assistant. What do you want to know about campus?"
	case StatusCheck:
		return "I'm doing great, thanks! Ready to help you with anything about campus. What's on your mind?"
	case Gratitude:
		return "No problem! Always happy to help a fellow student. Ask me anything else!"
	case Farewell:
		return "See you later! Come back anytime you need help with university stuff!"
	case Capability:
		return "I know all about hostels, fees, classes, the library and campus life. What interests you most?"
	default:
		return ""
	}
}

// KnowledgeReply renders the instruction for a knowledge answer. A
// confident answer is relayed with its supporting information; a low
// confidence one acknowledges the gap and redirects the student to an
// authoritative channel instead of presenting a thin retrieval result.
func (r *Router) KnowledgeReply(query, info string, conf Confidence) string {
	if conf == LowConfidence {
		return fmt.Sprintf(
			"A student asked: %q. I don't have specific details about this in my knowledge base. "+
				"Respond in 15 words or less with a helpful, conversational tone: briefly acknowledge "+
				"you don't have that info and suggest contacting the university office or checking the official website.",
			query)
	}
	return fmt.Sprintf(
		"A student asked: %q. Here is the relevant information: %s. "+
			"Respond in 15 words or less like a friendly fellow student, using simple everyday words.",
		query, info)
}
