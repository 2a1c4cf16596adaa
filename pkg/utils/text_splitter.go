package utils

// Default chunking parameters for library documents.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// SplitText splits a long string into chunks of approximately 'chunkSize' characters.
// It includes an 'overlap' to preserve context at boundaries. Chunk ends prefer
// a newline or space near the boundary so words stay intact.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		} else {
			end = breakNear(runes, i, end, overlap)
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}

// breakNear pulls the chunk end back to the nearest newline, or failing that
// the nearest space, within the overlap window. The window never reaches past
// the next chunk's start, so no text is lost.
func breakNear(runes []rune, start, end, overlap int) int {
	limit := end - overlap
	if limit < start {
		limit = start
	}

	space := -1
	for j := end - 1; j > limit; j-- {
		if runes[j] == '\n' {
			return j + 1
		}
		if space == -1 && runes[j] == ' ' {
			space = j + 1
		}
	}
	if space != -1 {
		return space
	}
	return end
}
