package review

import "strings"

// Narrative is free text with a derived word count.
type Narrative struct {
	text      string
	wordCount int
}

func NewNarrative(text string) Narrative {
	return Narrative{text: text, wordCount: len(strings.Fields(text))}
}

func (n Narrative) Text() string   { return n.text }
func (n Narrative) WordCount() int { return n.wordCount }
func (n Narrative) IsBlank() bool  { return strings.TrimSpace(n.text) == "" }

func (n Narrative) Equals(other Narrative) bool { return n.text == other.text }
