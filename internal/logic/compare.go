package logic

import (
	"strings"

	"github.com/esportle/esportle-api/internal/models"
)

// Compare scores guess against answer attribute by attribute. Details always
// describe the guessed player. Partial matches are evaluated against the
// guess's history, so Compare(a, b) and Compare(b, a) may differ.
func Compare(guess, answer *models.PlayerProfile) models.GuessResult {
	roles := roleStrings(guess.Roles)

	return models.GuessResult{
		Guess:   guess.Name,
		Overall: guess.ID == answer.ID,
		Region: models.GuessHint{
			Hint:    compareCurrent(string(guess.CurrentRegion), string(answer.CurrentRegion), regionStrings(guess.HistoricRegions)),
			Details: string(guess.CurrentRegion),
		},
		Team: models.GuessHint{
			Hint:    compareCurrent(guess.CurrentTeam, answer.CurrentTeam, guess.HistoricTeams),
			Details: guess.CurrentTeam,
		},
		Role: models.GuessHint{
			Hint:    compareSets(roles, roleStrings(answer.Roles)),
			Details: strings.Join(roles, ", "),
		},
		Nationality: models.GuessHint{
			Hint:    compareSets(guess.Nationalities, answer.Nationalities),
			Details: strings.Join(guess.Nationalities, ", "),
		},
		Debut:               compareDebut(guess, answer),
		GreatestAchievement: compareAchievement(guess.GreatestAchievement, answer.GreatestAchievement),
	}
}

func compareCurrent(guess, answer string, guessHistoric []string) models.Hint {
	if guess == answer {
		return models.HintCorrect
	}
	for _, h := range guessHistoric {
		if h == answer {
			return models.HintPartial
		}
	}
	return models.HintIncorrect
}

func compareSets(guess, answer []string) models.Hint {
	guessSet := make(map[string]bool, len(guess))
	for _, g := range guess {
		guessSet[g] = true
	}
	answerSet := make(map[string]bool, len(answer))
	for _, a := range answer {
		answerSet[a] = true
	}

	overlap := 0
	for g := range guessSet {
		if answerSet[g] {
			overlap++
		}
	}

	switch {
	case overlap == len(guessSet) && overlap == len(answerSet):
		return models.HintCorrect
	case overlap > 0:
		return models.HintPartial
	default:
		return models.HintIncorrect
	}
}

func compareDebut(guess, answer *models.PlayerProfile) models.GuessHint {
	hint := models.GuessHint{Details: models.DayKey(guess.Debut)}
	switch {
	case answer.Debut.Equal(guess.Debut):
		hint.Hint = models.HintCorrect
	case guess.Debut.IsZero() || answer.Debut.IsZero():
		hint.Hint = models.HintNeutral
	case answer.Debut.After(guess.Debut):
		hint.Hint = models.HintCorrectIsHigher
	default:
		hint.Hint = models.HintCorrectIsLower
	}
	return hint
}

func compareAchievement(guess, answer models.Achievement) models.GuessHint {
	hint := models.GuessHint{Details: guess.Label}
	switch {
	case answer.Score == guess.Score && answer.Label == guess.Label:
		hint.Hint = models.HintCorrect
	case answer.Score == guess.Score:
		hint.Hint = models.HintPartial
	case answer.Score > guess.Score:
		hint.Hint = models.HintCorrectIsHigher
	default:
		hint.Hint = models.HintCorrectIsLower
	}
	return hint
}

func regionStrings(regions []models.Region) []string {
	out := make([]string, len(regions))
	for i, r := range regions {
		out[i] = string(r)
	}
	return out
}

func roleStrings(roles []models.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
