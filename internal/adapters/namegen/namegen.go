// Package namegen synthesizes the human-readable run names used when a run
// is started without an explicit -name, per spec.md's HistoryFile section
// (§5's supplemented "Auto-generated run names (adjective-noun pairs)").
package namegen

import "math/rand/v2"

var adjectives = []string{
	"admiring", "boring", "compassionate", "dazzling", "eager", "focused",
	"gallant", "hopeful", "infallible", "jovial", "keen", "lucid", "modest",
	"nostalgic", "optimistic", "pensive", "quirky", "resilient", "stoic",
	"tender", "upbeat", "vigilant", "wizardly", "youthful", "zealous",
}

var surnames = []string{
	"curie", "darwin", "euler", "franklin", "galileo", "hopper", "ising",
	"jones", "kepler", "lovelace", "mendel", "newton", "ochoa", "pascal",
	"ramanujan", "shannon", "turing", "volta", "wozniak", "yalow",
}

// Generate returns a random "adjective_surname" run name.
func Generate() string {
	return adjectives[rand.IntN(len(adjectives))] + "_" + surnames[rand.IntN(len(surnames))]
}
