package game

import "fmt"

// CampaignLevel is the materialized, mutable runtime unit of a campaign.
// Invariant: 0 <= ProgressDays <= TargetDays; Completed flips to true only
// when the campaign has moved past the level.
type CampaignLevel struct {
	ID         string    `json:"id"`
	TrackID    TrackID   `json:"trackId"`
	Index      int       `json:"index"` // 1-based position in the final order
	Title      string    `json:"title"`
	TargetDays int       `json:"targetDays"`
	Predicate  Predicate `json:"predicate"`

	ProgressDays int  `json:"progressDays"`
	Completed    bool `json:"completed"`

	// Idempotence bookkeeping: the last date the daily evaluation ran for
	// this level and what it concluded.
	LastEvaluated string `json:"lastEvaluated,omitempty"`
	LastPassed    bool   `json:"lastPassed,omitempty"`
}

// BuildCampaign materializes the full ordered level sequence for a campaign:
// each ranked track's templates under the difficulty table, then one boss
// level. The builder runs once per campaign lifetime; re-running it produces
// a brand-new sequence.
func BuildCampaign(ranking []TrackID, d Difficulty, base Baseline) []*CampaignLevel {
	var levels []*CampaignLevel

	for _, track := range ranking {
		for ordinal, tpl := range templatesFor(track, d) {
			pred := tpl.Predicate
			if pred.Kind == PredMicroDose {
				pred.BaselineDoses = base.CaffeineDoses
			}
			levels = append(levels, &CampaignLevel{
				ID:         fmt.Sprintf("%s_%d", track, ordinal+1),
				TrackID:    track,
				Title:      tpl.Title,
				TargetDays: tpl.TargetDays,
				Predicate:  pred,
			})
		}
	}

	bossTarget := bossTargetDays[d]
	if bossTarget == 0 {
		bossTarget = bossTargetDays[DifficultyMedium]
	}
	levels = append(levels, &CampaignLevel{
		ID:         "boss_final",
		TrackID:    trackBoss,
		Title:      "The long run",
		TargetDays: bossTarget,
		Predicate:  Predicate{Kind: PredRestraintStrict},
	})

	// The sequence index, not the template ordinal, drives milestone
	// tracking, so it is assigned over the final order.
	for i, lvl := range levels {
		lvl.Index = i + 1
	}
	return levels
}
