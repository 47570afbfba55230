package game

import (
	constants "wordduel/internal/constants"
	models "wordduel/internal/models"
)

// verdictRank orders verdicts for keyboard-status promotion.
// A letter's aggregate status only ever moves upward along this order.
var verdictRank = map[string]int{
	constants.VerdictUnused:  0,
	constants.VerdictMiss:    1,
	constants.VerdictPresent: 2,
	constants.VerdictHit:     3,
}

// Evaluate scores a guess against the target with the two-pass algorithm.
// Pass one marks exact-position hits and consumes those target letters; pass
// two marks present letters against the unconsumed remainder, consuming the
// leftmost occurrence each time. For any letter, HIT+PRESENT verdicts never
// exceed that letter's count in the target.
func Evaluate(guess, target string) []models.GuessResult {
	result := make([]models.GuessResult, constants.WordLength)
	targetCopy := []rune(target)

	for i := 0; i < constants.WordLength; i++ {
		if guess[i] == target[i] {
			result[i] = models.GuessResult{Letter: string(guess[i]), Status: constants.VerdictHit}
			targetCopy[i] = ' '
		}
	}

	for i := 0; i < constants.WordLength; i++ {
		if result[i].Status != "" {
			continue
		}
		result[i].Letter = string(guess[i])

		found := false
		for j := 0; j < constants.WordLength; j++ {
			if targetCopy[j] == rune(guess[i]) {
				result[i].Status = constants.VerdictPresent
				targetCopy[j] = ' '
				found = true
				break
			}
		}
		if !found {
			result[i].Status = constants.VerdictMiss
		}
	}

	return result
}

// ApplyLetterStatus folds a guess evaluation into the cumulative per-letter
// keyboard state. A stored verdict is replaced only by a strictly higher one,
// so reapplying the same evaluation is a no-op and HIT is permanent.
func ApplyLetterStatus(status map[string]string, results []models.GuessResult) {
	for _, r := range results {
		current, ok := status[r.Letter]
		if !ok {
			current = constants.VerdictUnused
		}
		if verdictRank[r.Status] > verdictRank[current] {
			status[r.Letter] = r.Status
		}
	}
}

// NewLetterStatus returns the A-Z map with every letter UNUSED.
func NewLetterStatus() map[string]string {
	status := make(map[string]string, 26)
	for c := 'A'; c <= 'Z'; c++ {
		status[string(c)] = constants.VerdictUnused
	}
	return status
}

// TotalHits counts HIT verdicts across all of a player's guesses. Used by the
// tie-break when neither dual player solves the word.
func TotalHits(p *models.PlayerProgress) int {
	total := 0
	for _, row := range p.GuessResults {
		for _, r := range row {
			if r.Status == constants.VerdictHit {
				total++
			}
		}
	}
	return total
}
