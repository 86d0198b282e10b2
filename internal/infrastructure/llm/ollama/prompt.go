package ollama

import (
	"fmt"
	"strings"
)

func buildClassificationPrompt(text string, labels []string) string {
	const maxSnippet = 4000
	snippet := text
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}

	return fmt.Sprintf(`You are a legal clause classifier.
Choose exactly one label from this list: %s.
Return strict JSON object with keys:
label (string, one of the list), confidence (number from 0 to 1).
No markdown, no extra keys.

Clause:
%s`, strings.Join(labels, "; "), snippet)
}
