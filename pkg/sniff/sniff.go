// Package sniff guesses the field separator of a delimited text sample.
package sniff

import "strings"

// SampleSize is how much of a file the detector needs to inspect.
const SampleSize = 1024

// candidates in preference order; the first wins a tied score.
var candidates = []rune{',', ';', '\t', '|'}

// Detect returns the best-supported separator for the sample. A candidate is
// supported when it occurs the same nonzero number of times on every sample
// line; the highest such count wins. An empty or inconclusive sample falls
// back to ','. Detect never fails outward.
func Detect(sample []byte) rune {
	lines := sampleLines(sample)
	if len(lines) == 0 {
		return ','
	}

	best := rune(0)
	bestCount := 0
	for _, cand := range candidates {
		count := strings.Count(lines[0], string(cand))
		if count == 0 {
			continue
		}
		consistent := true
		for _, line := range lines[1:] {
			if strings.Count(line, string(cand)) != count {
				consistent = false
				break
			}
		}
		if consistent && count > bestCount {
			best = cand
			bestCount = count
		}
	}

	if best == 0 {
		return ','
	}
	return best
}

// sampleLines splits the sample into complete, nonempty lines. The sample is
// usually cut mid-line, so the trailing fragment is dropped whenever more
// than one line is present.
func sampleLines(sample []byte) []string {
	text := strings.ReplaceAll(string(sample), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if len(lines) > 1 {
		lines = lines[:len(lines)-1]
	}

	complete := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			complete = append(complete, line)
		}
	}
	return complete
}
