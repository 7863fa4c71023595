package tracking

import "github.com/claude/liftlog/internal/models"

// Stats derives aggregate numbers from a session snapshot. It is recomputed
// on every call; nothing here is stored.
//
// Volume counts completed sets that have both weight and reps. Average set
// time uses completed sets with both timestamps in order. Average rest time
// uses the reported rest seconds, falling back to the rest window.
func Stats(s *models.Session) models.SessionStats {
	var st models.SessionStats
	var setTime, restTime float64
	var timedSets, restedSets int

	st.TotalExercises = len(s.Exercises)
	for _, ex := range s.Exercises {
		switch ex.Status {
		case models.ProgressCompleted:
			st.CompletedExercises++
		case models.ProgressSkipped:
			st.SkippedExercises++
		}

		for _, set := range ex.Sets {
			st.TotalSets++
			if set.Status != models.ProgressCompleted {
				continue
			}
			st.CompletedSets++

			if set.ActualWeightKg != nil && set.ActualReps != nil {
				if v := *set.ActualWeightKg * float64(*set.ActualReps); v > 0 {
					st.TotalVolume += v
				}
			}
			if set.StartTime != nil && set.EndTime != nil {
				if d := set.EndTime.Sub(*set.StartTime); d >= 0 {
					setTime += d.Seconds()
					timedSets++
				}
			}
			if rest, ok := restSeconds(set); ok {
				restTime += rest
				restedSets++
			}
		}
	}

	if timedSets > 0 {
		st.AverageSetTime = setTime / float64(timedSets)
	}
	if restedSets > 0 {
		st.AverageRestTime = restTime / float64(restedSets)
	}
	if st.TotalExercises > 0 {
		st.CompletionPercentage = float64(st.CompletedExercises) / float64(st.TotalExercises) * 100
	}
	return st
}

func restSeconds(set models.SetProgress) (float64, bool) {
	if set.ActualRestSeconds != nil {
		return float64(*set.ActualRestSeconds), true
	}
	if set.RestStartTime != nil && set.RestEndTime != nil {
		if d := set.RestEndTime.Sub(*set.RestStartTime); d >= 0 {
			return d.Seconds(), true
		}
	}
	return 0, false
}
