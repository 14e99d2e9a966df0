package session

import "strings"

// EstimateLevel derives a coarse proficiency signal from the current mode session.
// Corrections only count in TUTOR mode, where they are collected.
func EstimateLevel(s *State) Level {
	users := s.UserTurns()
	if len(users) == 0 {
		if s.EstimatedLevel == "" {
			return LevelIntermediate
		}
		return s.EstimatedLevel
	}

	words := 0
	for _, t := range users {
		words += len(strings.Fields(t.Text))
	}
	avgWords := float64(words) / float64(len(users))

	errorRate := 0.0
	if s.Mode == ModeTutor {
		errorRate = float64(len(s.CorrectionLog)) / float64(len(users))
	}

	switch {
	case avgWords < 5 || errorRate >= 1.5:
		return LevelBeginner
	case avgWords >= 12 && errorRate <= 0.25:
		return LevelAdvanced
	default:
		return LevelIntermediate
	}
}
