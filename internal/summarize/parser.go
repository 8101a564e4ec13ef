package summarize

import (
	"strings"

	"versepulse/internal/domain"
)

// ParseResponse recovers a structured summary from free-form model output.
// The grammar is line-oriented and tolerant: arbitrary prose before,
// between, or after the two labeled sections never causes a failure, and
// the function is total over all inputs.
//
// The first line prefixed "SUMMARY:" (case-insensitive) supplies the
// summary; absent that, fallbackTitle does. A line containing "FEATURES:"
// anywhere switches the scan into features mode, which is never exited:
// from there every line starting with "-" or "*" contributes one feature,
// "none" entries collapse away, and anything else is prose continuation.
func ParseResponse(raw, fallbackTitle string) domain.PatchSummary {
	summary := fallbackTitle
	features := []string{}

	lines := strings.Split(strings.TrimSpace(raw), "\n")

	for _, line := range lines {
		if strings.HasPrefix(strings.ToUpper(line), "SUMMARY:") {
			summary = strings.TrimSpace(line[len("SUMMARY:"):])
			break
		}
	}

	inFeatures := false
	for _, line := range lines {
		if strings.Contains(strings.ToUpper(line), "FEATURES:") {
			inFeatures = true
			// Inline remainder counts only when bullet-prefixed; a bare
			// header or the literal "None" carries no feature.
			afterColon := line
			if idx := strings.IndexByte(line, ':'); idx >= 0 {
				afterColon = line[idx+1:]
			}
			afterColon = strings.TrimSpace(afterColon)
			if !strings.EqualFold(afterColon, "none") && afterColon != "" && strings.HasPrefix(afterColon, "-") {
				features = append(features, strings.TrimSpace(afterColon[1:]))
			}
			continue
		}

		if !inFeatures {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
			feature := strings.TrimSpace(trimmed[1:])
			if feature != "" && !strings.EqualFold(feature, "none") {
				features = append(features, feature)
			}
		}
	}

	return domain.PatchSummary{Summary: summary, Features: features}
}
