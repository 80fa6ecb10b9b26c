// Package recovery generates and canonicalizes recovery-word phrases.
// A user receives six words exactly once at signup; only a bcrypt hash of
// the canonical phrase is ever stored.
package recovery

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// PhraseLength is the number of words in a recovery phrase.
const PhraseLength = 6

// wordList is the pool recovery words are drawn from. Common, distinct
// words that are easy to write down and read back over the phone.
var wordList = []string{
	"apple", "banana", "carrot", "diamond", "elephant", "forest",
	"guitar", "horizon", "island", "jacket", "kitchen", "lemon",
	"mountain", "notebook", "orange", "pencil", "quantum", "river",
	"sunset", "turtle", "umbrella", "violet", "window", "xylophone",
	"yellow", "zebra", "airplane", "balloon", "candle", "dolphin",
	"eagle", "fountain", "glacier", "harbor", "igloo", "jungle",
	"kangaroo", "lighthouse", "meadow", "nebula", "octopus", "penguin",
	"quasar", "rainbow", "satellite", "telescope", "unicorn", "volcano",
	"waterfall", "xenon", "yacht", "zeppelin",
}

// Generate returns six distinct recovery words chosen with crypto/rand.
func Generate() ([]string, error) {
	pool := make([]string, len(wordList))
	copy(pool, wordList)

	words := make([]string, 0, PhraseLength)
	for i := 0; i < PhraseLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
		if err != nil {
			return nil, err
		}
		idx := int(n.Int64())
		words = append(words, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return words, nil
}

// Canonical joins recovery words into the exact form that gets hashed:
// the words in the order supplied, separated by single spaces.
func Canonical(words []string) string {
	trimmed := make([]string, len(words))
	for i, w := range words {
		trimmed[i] = strings.ToLower(strings.TrimSpace(w))
	}
	return strings.Join(trimmed, " ")
}
