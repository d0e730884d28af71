package insight

import (
	"fmt"
	"strings"
)

const promptTemplate = `Based on the following economic letter content, please answer this question: %s

Economic Letter Content:
%s

Please provide a clear, concise, and insightful analysis based on the content provided.
Format your response using markdown for better readability:
- Use **bold** for key points and important terms
- Use bullet points or numbered lists for structured information
- Use headers (##, ###) to organize different sections of your analysis
- Use *italics* for emphasis where appropriate
- Use > blockquotes for important quotes from the letter`

// buildPrompt assembles the fixed instructional template around the question
// and the letter text, with the letter text held to the character budget so
// the request respects the endpoint's input limits.
func buildPrompt(letterText, question string, budget int) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(question), truncateRunes(letterText, budget))
}

// truncateRunes cuts s to at most n runes, dropping text from the end so the
// opening context survives. Cutting on rune boundaries keeps the encoding
// intact.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
