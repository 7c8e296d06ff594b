package blogservice

import "strings"

const wordsPerMinute = 200

// ReadingTime estimates how many minutes a body takes to read at 200 words
// per minute, rounded up. An empty or whitespace-only body is 0 minutes;
// anything with at least one word is at least 1.
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 0
	}

	return (words + wordsPerMinute - 1) / wordsPerMinute
}
