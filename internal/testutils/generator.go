package testutils

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/brianvoe/gofakeit/v7"
)

// DataGenerator builds random but reproducible test data.
type DataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewDataGenerator creates a generator. Without a seed it seeds from the clock.
func NewDataGenerator(seed ...int64) *DataGenerator {
	s := time.Now().UnixNano()
	if len(seed) > 0 {
		s = seed[0]
	}
	return &DataGenerator{faker: gofakeit.New(uint64(s)), seed: s}
}

// Seed returns the seed, for reproducing a failing run.
func (g *DataGenerator) Seed() int64 {
	return g.seed
}

// UserID returns a random caller identity.
func (g *DataGenerator) UserID() sharedtypes.UserID {
	return sharedtypes.UserID("user-" + g.faker.Numerify("#########"))
}

// Username returns a username no longer than max runes.
func (g *DataGenerator) Username(max int) string {
	return truncate(g.faker.Username(), max)
}

// Title returns a short sentence no longer than max runes.
func (g *DataGenerator) Title(max int) string {
	return truncate(g.faker.Sentence(g.faker.Number(2, 4)), max)
}

// Description returns a sentence no longer than max runes.
func (g *DataGenerator) Description(max int) string {
	return truncate(g.faker.Sentence(g.faker.Number(5, 12)), max)
}

// Scores returns n records with scores inside b and increasing timestamps.
func (g *DataGenerator) Scores(n int, b sharedtypes.Bounds) []sharedtypes.ScoreRecord {
	hi := b.Max
	if hi-b.Min > 1_000_000 {
		hi = b.Min + 1_000_000
	}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Unix()

	out := make([]sharedtypes.ScoreRecord, n)
	for i := range out {
		out[i] = sharedtypes.ScoreRecord{
			Score:     b.Min + uint64(g.faker.Number(0, int(hi-b.Min))),
			Timestamp: start + int64(i)*60,
		}
	}
	return out
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) > max {
		return string(r[:max])
	}
	return s
}
