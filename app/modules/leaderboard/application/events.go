package leaderboardservice

import (
	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	leaderboardevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/leaderboard"
)

// RankingUpdatedPayload converts a ranking change into its event payload.
func RankingUpdatedPayload(update *leaderboarddomain.RankingUpdate) *leaderboardevents.LeaderboardRankingUpdatedPayloadV1 {
	payload := &leaderboardevents.LeaderboardRankingUpdatedPayloadV1{
		LeaderboardID: update.LeaderboardID,
		GameID:        update.GameID,
		PlayerID:      update.PlayerID,
		Rank:          update.Outcome.Rank,
		Ranking:       RankedEntries(update.Entries),
	}
	if d := update.Outcome.Displaced; d != nil {
		entry := rankedEntry(*d)
		payload.Displaced = &entry
	}
	return payload
}

// RankedEntries converts ranking entries into their event form.
func RankedEntries(entries []leaderboarddomain.Entry) []leaderboardevents.RankedEntryV1 {
	out := make([]leaderboardevents.RankedEntryV1, 0, len(entries))
	for _, e := range entries {
		out = append(out, rankedEntry(e))
	}
	return out
}

func rankedEntry(e leaderboarddomain.Entry) leaderboardevents.RankedEntryV1 {
	return leaderboardevents.RankedEntryV1{
		Rank:      e.Rank,
		PlayerID:  e.PlayerID,
		Score:     e.Record.Score,
		Timestamp: e.Record.Timestamp,
	}
}
