package store

import "math"

// DashboardStats is the derived dashboard view. It is recomputed from the
// stores on every call, never cached.
type DashboardStats struct {
	TotalStudents int     `json:"total_students"`
	TotalClasses  int     `json:"total_classes"`
	Reminders     int     `json:"reminders"`
	AverageGrade  float64 `json:"average_grade"` // mean grade level, one decimal
	AverageScore  float64 `json:"average_score"` // mean of loaded grade scores
}

// Dashboard computes the summary cards from whatever is currently loaded.
func Dashboard(students *StudentStore, classes *ClassStore, grades *GradeStore, reminders *ReminderStore) DashboardStats {
	stats := DashboardStats{
		TotalStudents: students.Len(),
		TotalClasses:  classes.Len(),
		Reminders:     reminders.Len(),
	}

	if items := students.Items(); len(items) > 0 {
		sum := 0
		for _, s := range items {
			sum += s.Grade
		}
		stats.AverageGrade = round1(float64(sum) / float64(len(items)))
	}

	if all := grades.All(); len(all) > 0 {
		sum := 0.0
		for _, g := range all {
			sum += g.Score
		}
		stats.AverageScore = round1(sum / float64(len(all)))
	}

	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
