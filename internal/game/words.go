package game

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/samber/lo"

	constants "wordduel/internal/constants"
	util "wordduel/internal/util"
)

type wordFile struct {
	Words []string `json:"words"`
}

// LoadWords reads the dictionary file and returns the normalized word list
// plus a membership set. Words that are not exactly five letters are skipped
// with a warning.
func LoadWords(path string) ([]string, map[string]struct{}, error) {
	util.LogInfo("Loading words from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var wf wordFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, nil, err
	}

	words := lo.FilterMap(wf.Words, func(w string, _ int) (string, bool) {
		w = strings.ToUpper(strings.TrimSpace(w))
		if len(w) != constants.WordLength {
			util.LogWarn("Skipping word %q: not %d letters", w, constants.WordLength)
			return "", false
		}
		return w, true
	})

	wordSet := make(map[string]struct{}, len(words))
	lo.ForEach(words, func(w string, _ int) {
		wordSet[w] = struct{}{}
	})

	util.LogInfo("Successfully loaded %d words", len(words))
	return words, wordSet, nil
}

// ValidateWordList checks dictionary integrity before the server starts:
// exact length, alphabetic, uppercase, no duplicates.
func ValidateWordList(words []string) error {
	if len(words) == 0 {
		return fmt.Errorf("word list is empty")
	}
	seen := make(map[string]struct{}, len(words))
	for i, w := range words {
		if len(w) != constants.WordLength {
			return fmt.Errorf("word %q at index %d: invalid length %d", w, i, len(w))
		}
		if !IsAlphabetic(w) {
			return fmt.Errorf("word %q at index %d: contains non-alphabetic characters", w, i)
		}
		if w != strings.ToUpper(w) {
			return fmt.Errorf("word %q at index %d: not in uppercase format", w, i)
		}
		if _, dup := seen[w]; dup {
			return fmt.Errorf("duplicate word %q at index %d", w, i)
		}
		seen[w] = struct{}{}
	}
	return nil
}

// WordStatistics summarizes the dictionary for logging and game balancing.
func WordStatistics(words []string) (totalWords int, avgVowels float64, letterFrequency map[string]int) {
	letterFrequency = make(map[string]int)
	vowels := "AEIOU"
	totalVowels := 0
	for _, w := range words {
		for _, c := range w {
			letterFrequency[string(c)]++
			if strings.ContainsRune(vowels, c) {
				totalVowels++
			}
		}
	}
	if len(words) > 0 {
		avgVowels = float64(totalVowels) / float64(len(words))
	}
	return len(words), avgVowels, letterFrequency
}

func IsAlphabetic(s string) bool {
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// RandomWord picks a uniformly random target word. Falls back to the first
// entry if the context is cancelled or the random source fails.
func RandomWord(words []string, ctx context.Context) string {
	reqID, _ := ctx.Value(constants.RequestIDKey).(string)

	select {
	case <-ctx.Done():
		if reqID != "" {
			util.LogWarn("[request_id=%v] RandomWord cancelled: %v", reqID, ctx.Err())
		} else {
			util.LogWarn("RandomWord cancelled: %v", ctx.Err())
		}
		return words[0]
	default:
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		if reqID != "" {
			util.LogWarn("[request_id=%v] Error generating random number: %v, using fallback", reqID, err)
		} else {
			util.LogWarn("Error generating random number: %v, using fallback", err)
		}
		return words[0]
	}
	return words[n.Int64()]
}

func IsValidWord(wordSet map[string]struct{}, word string) bool {
	_, ok := wordSet[word]
	return ok
}
