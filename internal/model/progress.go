package model

import "time"

// CourseProgress tracks which lectures a user has completed in a course.
// Keyed by (user, course); lecture ids form a set, duplicates are absorbed
// on write.
type CourseProgress struct {
	UserID            string     `db:"user_id" json:"user_id"`
	CourseID          string     `db:"course_id" json:"course_id"`
	LecturesCompleted StringList `db:"lecture_completed" json:"lectures_completed"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// IsCourseComplete reports whether every lecture currently in the course is
// in the completed set. Evaluated at read time since content can change after
// enrollment; completed ids for removed lectures are ignored, and an empty
// course is never complete.
func (p *CourseProgress) IsCourseComplete(course *Course) bool {
	total := course.TotalLectures()
	if total == 0 {
		return false
	}
	completed := 0
	for _, ch := range course.Chapters {
		for _, l := range ch.Lectures {
			if p.LecturesCompleted.Contains(l.LectureID) {
				completed++
			}
		}
	}
	return completed == total
}
