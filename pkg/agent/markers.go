package agent

import "strings"

const (
	analysisOpenTag  = "<analysis>"
	analysisCloseTag = "</analysis>"

	// ActionPlanMarker is the heading the system prompt asks the model to
	// use for multi-step plans.
	ActionPlanMarker = "📋 Action Plan:"
)

// completionMarkers are the substrings that flag a post-tool summary as a
// task completion rather than a plain reply.
var completionMarkers = []string{
	"completed", "summary", "finished", "done", "successfully", "saved", "created",
}

// SplitAnalysis extracts the first <analysis>...</analysis> block from
// content. It returns the trimmed inner text and the content with the block
// removed. When no complete block is present, content is returned unchanged.
func SplitAnalysis(content string) (analysis, rest string, found bool) {
	start := strings.Index(content, analysisOpenTag)
	if start == -1 {
		return "", content, false
	}

	end := strings.Index(content, analysisCloseTag)
	if end < start+len(analysisOpenTag) {
		return "", content, false
	}

	analysis = strings.TrimSpace(content[start+len(analysisOpenTag) : end])
	rest = strings.TrimSpace(content[:start] + content[end+len(analysisCloseTag):])
	return analysis, rest, true
}

// FindActionPlan returns the action plan section of content: from the plan
// marker to the first blank line after it, or to the end of content when no
// blank line follows.
func FindActionPlan(content string) (plan string, found bool) {
	start := strings.Index(content, ActionPlanMarker)
	if start == -1 {
		return "", false
	}

	end := strings.Index(content[start:], "\n\n")
	if end == -1 {
		return content[start:], true
	}
	return content[start : start+end], true
}

// HasCompletionMarker reports whether content reads like a task completion
// summary. Matching is case-insensitive substring search.
func HasCompletionMarker(content string) bool {
	lower := strings.ToLower(content)
	for _, marker := range completionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
