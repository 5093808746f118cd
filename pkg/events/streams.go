// Package events lists the JetStream streams that carry module events.
package events

// Stream names. Every topic is prefixed with its stream name.
const (
	GameStream        = "game"
	PlayerStream      = "player"
	LeaderboardStream = "leaderboard"
	ScoreStream       = "score"
	MergeStream       = "merge"
	AchievementStream = "achievement"
)

// Streams returns every stream the service publishes to.
func Streams() []string {
	return []string{
		GameStream,
		PlayerStream,
		LeaderboardStream,
		ScoreStream,
		MergeStream,
		AchievementStream,
	}
}
