// Package checkpoint persists per-source stage completion.
//
// A flag in the record is a hint only. The orchestrator trusts a stage as done
// when the flag is set AND the stage's artifact still exists on disk; either
// missing forces that stage to run again.
package checkpoint

// Checkpoint is the completion record of one source folder
type Checkpoint struct {
	URL              string   `json:"url,omitempty"`
	Title            string   `json:"title,omitempty"`
	AudioFile        string   `json:"audio_file,omitempty"`
	AudioHash        string   `json:"audio_hash,omitempty"`
	Downloaded       bool     `json:"downloaded"`
	SilenceRemoved   bool     `json:"silence_removed"`
	Transcribed      bool     `json:"transcribed"`
	SummaryGenerated bool     `json:"summary_generated"`
	Completed        bool     `json:"completed"`
	Degraded         []string `json:"degraded,omitempty"`
}

// Equal compares two records field by field
func (c Checkpoint) Equal(o Checkpoint) bool {
	if c.URL != o.URL || c.Title != o.Title || c.AudioFile != o.AudioFile || c.AudioHash != o.AudioHash {
		return false
	}
	if c.Downloaded != o.Downloaded || c.SilenceRemoved != o.SilenceRemoved ||
		c.Transcribed != o.Transcribed || c.SummaryGenerated != o.SummaryGenerated ||
		c.Completed != o.Completed {
		return false
	}
	if len(c.Degraded) != len(o.Degraded) {
		return false
	}
	for i := range c.Degraded {
		if c.Degraded[i] != o.Degraded[i] {
			return false
		}
	}
	return true
}

// ResetAfterDownload clears every flag that depends on the raw audio
func (c *Checkpoint) ResetAfterDownload() {
	c.SilenceRemoved = false
	c.Transcribed = false
	c.SummaryGenerated = false
	c.Completed = false
	c.Degraded = nil
}

// MarkDegraded records an optional feature that was unavailable, once
func (c *Checkpoint) MarkDegraded(feature string) {
	for _, f := range c.Degraded {
		if f == feature {
			return
		}
	}
	c.Degraded = append(c.Degraded, feature)
}

// ClearDegraded forgets a feature once it has run successfully
func (c *Checkpoint) ClearDegraded(feature string) {
	kept := c.Degraded[:0]
	for _, f := range c.Degraded {
		if f != feature {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	c.Degraded = kept
}
