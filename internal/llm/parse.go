package llm

import "strings"

const fence = "```"

// CleanResponse strips one leading markdown code fence (with an optional
// language tag) and one trailing fence from an LLM reply. Text between the
// fences is returned as is; replies without fences only lose surrounding
// whitespace.
func CleanResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, fence) {
		rest := cleaned[len(fence):]
		i := 0
		for i < len(rest) && isASCIILetter(rest[i]) {
			i++
		}
		cleaned = strings.TrimPrefix(rest[i:], "\n")
	}

	cleaned = strings.TrimSpace(cleaned)
	if strings.HasSuffix(cleaned, fence) {
		cleaned = strings.TrimSuffix(cleaned, fence)
		cleaned = strings.TrimSuffix(cleaned, "\n")
	}
	return cleaned
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
