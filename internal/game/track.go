package game

import "sort"

// TrackID identifies one of the fixed habit dimensions.
type TrackID string

const (
	TrackNoFap    TrackID = "nofap"
	TrackCaffeine TrackID = "caffeine"
	TrackStrength TrackID = "strength"

	// trackBoss is the pseudo-track of the synthesized final level.
	trackBoss TrackID = "boss"
)

// Track is an immutable catalog entry, not user data.
type Track struct {
	ID    TrackID
	Label string
}

// Tracks is the fixed catalog. Declaration order is the tie-break order
// when assessment scores are equal.
var Tracks = []Track{
	{ID: TrackNoFap, Label: "NoFap"},
	{ID: TrackCaffeine, Label: "Caffeine"},
	{ID: TrackStrength, Label: "Strength"},
}

var trackLabels = map[TrackID]string{
	TrackNoFap:    "NoFap",
	TrackCaffeine: "Caffeine",
	TrackStrength: "Strength",
	trackBoss:     "Boss",
}

// TrackLabel returns the human label for a track, or "" for unknown ids.
func TrackLabel(id TrackID) string {
	return trackLabels[id]
}

// Assessment holds per-track self-assessment scores (0-4). A track with no
// entry has not been scored yet.
type Assessment map[TrackID]int

// Complete reports whether every catalog track has been scored.
func (a Assessment) Complete() bool {
	for _, t := range Tracks {
		if _, ok := a[t.ID]; !ok {
			return false
		}
	}
	return true
}

// RankTracks orders tracks by descending score so the most problematic one
// is attempted first. Ties keep catalog order.
func RankTracks(a Assessment) []TrackID {
	ids := make([]TrackID, len(Tracks))
	for i, t := range Tracks {
		ids[i] = t.ID
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return a[ids[i]] > a[ids[j]]
	})
	return ids
}
