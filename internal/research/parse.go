// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"regexp"
	"strconv"
	"strings"
)

// indexPattern matches runs of digits in selector output.
var indexPattern = regexp.MustCompile(`\d+`)

// ParseQueries extracts search queries from planner output: one query per
// non-blank line, capped at max. When no line survives, the raw response text
// becomes the single fallback query, so planning always yields at least one
// query no matter what the model returned.
func ParseQueries(response string, max int) []string {
	queries := nonBlankLines(response)
	if len(queries) == 0 {
		return []string{response}
	}
	if max > 0 && len(queries) > max {
		queries = queries[:max]
	}
	return queries
}

// ParseFollowUps extracts follow-up queries from evaluator output: one query
// per non-blank line, capped at max. An empty result signals convergence.
func ParseFollowUps(response string, max int) []string {
	followUps := nonBlankLines(response)
	if max > 0 && len(followUps) > max {
		followUps = followUps[:max]
	}
	return followUps
}

// ParseIndices extracts 1-based evidence indices from selector output. It
// scans numeric tokens in response order, drops values outside
// [1, poolSize], deduplicates keeping the first occurrence, and truncates to
// max. A response with no usable token yields an empty selection.
func ParseIndices(response string, poolSize, max int) []int {
	var indices []int
	seen := make(map[int]bool)
	for _, token := range indexPattern.FindAllString(response, -1) {
		n, err := strconv.Atoi(token)
		if err != nil || n < 1 || n > poolSize || seen[n] {
			continue
		}
		seen[n] = true
		indices = append(indices, n)
		if max > 0 && len(indices) == max {
			break
		}
	}
	return indices
}

// nonBlankLines returns the trimmed, non-blank lines of s in order.
func nonBlankLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
