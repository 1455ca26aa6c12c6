package analysis

import (
	"sort"
	"strings"
)

// EvidencePolicy controls which frames count as evidence for the answer
// timestamps. Keywords are matched case-insensitively against the raw
// frame responses.
type EvidencePolicy struct {
	PresenceKeywords    []string
	UncertaintyKeywords []string
	// EndThresholdFrac drops matches late in the video unless the question
	// itself asks about the end. Timestamps at or beyond this fraction of
	// the total duration are suppressed.
	EndThresholdFrac float64
}

// DefaultEvidencePolicy returns the keyword sets tuned for shelf footage.
func DefaultEvidencePolicy() EvidencePolicy {
	return EvidencePolicy{
		PresenceKeywords: []string{
			"located", "visible", "is on", "can be seen", "placed", "sitting", "present", "seen",
		},
		UncertaintyKeywords: []string{
			"not visible", "not found", "unclear", "could be", "might be", "probably",
		},
		EndThresholdFrac: 0.9,
	}
}

// Evidence is the aggregate of all per-frame responses for one run.
type Evidence struct {
	Combined   string
	Timestamps []int64
}

const skippedPrefix = "[Skipped frame"

// aggregateEvidence orders the frame results, joins their raw texts into the
// combined transcript fed to the summarizer, and collects the timestamps of
// frames that affirmatively support an answer. Skipped-frame placeholders
// join the transcript but never contribute timestamps.
func aggregateEvidence(results []FrameResult, durationMS int64, policy EvidencePolicy) Evidence {
	ordered := append([]FrameResult(nil), results...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].FrameIndex < ordered[j].FrameIndex
	})

	blocks := make([]string, 0, len(ordered))
	timestamps := make([]int64, 0, len(ordered))

	for _, r := range ordered {
		blocks = append(blocks, r.Raw)

		if strings.HasPrefix(r.Raw, skippedPrefix) {
			continue
		}
		raw := strings.ToLower(r.Raw)
		if !containsAny(raw, policy.PresenceKeywords) || containsAny(raw, policy.UncertaintyKeywords) {
			continue
		}
		late := durationMS > 0 && float64(r.TimestampMS) >= policy.EndThresholdFrac*float64(durationMS)
		if late && containsWord(raw, "end") {
			continue
		}
		timestamps = append(timestamps, r.TimestampMS)
	}

	return Evidence{
		Combined:   strings.Join(blocks, "\n\n"),
		Timestamps: timestamps,
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func containsWord(s, word string) bool {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
	}) {
		if f == word {
			return true
		}
	}
	return false
}
