package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Video source tags for lectures.
const (
	VideoSourceYouTube    = "youtube"
	VideoSourceCloudinary = "cloudinary"
)

// Lecture is a single video-backed content unit inside a chapter.
type Lecture struct {
	LectureID       string  `json:"lecture_id"`
	Order           int     `json:"order"`
	Title           string  `json:"title"`
	DurationMinutes float64 `json:"duration_minutes"`
	VideoSource     string  `json:"video_source"`
	URL             string  `json:"url"`
	IsPreviewFree   bool    `json:"is_preview_free"`
}

// Chapter is a named, ordered group of lectures. The id is opaque and
// client-generated; order indices are monotonic but not necessarily gapless.
type Chapter struct {
	ChapterID string    `json:"chapter_id"`
	Order     int       `json:"order"`
	Title     string    `json:"title"`
	Lectures  []Lecture `json:"lectures"`
}

// Rating is one user's 1-5 score for a course. At most one per user.
type Rating struct {
	UserID string `json:"user_id"`
	Rating int    `json:"rating"`
}

// Course represents a sellable course document. Chapters, ratings and the
// enrolled-student set are embedded (JSONB columns), so the course row is the
// unit of atomicity for content edits, rating upserts and enrollment.
type Course struct {
	CourseID         string      `db:"id" json:"course_id"`
	EducatorID       string      `db:"educator_id" json:"educator_id"`
	Title            string      `db:"title" json:"title"`
	Description      string      `db:"description" json:"description"`
	Price            float64     `db:"price" json:"price"`
	Discount         float64     `db:"discount" json:"discount"`
	ThumbnailURL     string      `db:"thumbnail_url" json:"thumbnail_url"`
	IsPublished      bool        `db:"is_published" json:"is_published"`
	Chapters         ChapterList `db:"course_content" json:"chapters"`
	Ratings          RatingList  `db:"course_ratings" json:"ratings"`
	EnrolledStudents StringList  `db:"enrolled_students" json:"enrolled_students"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}

// TotalLectures sums lecture counts across all chapters. Computed at query
// time because course content can change after enrollment.
func (c *Course) TotalLectures() int {
	total := 0
	for _, ch := range c.Chapters {
		total += len(ch.Lectures)
	}
	return total
}

// TotalDurationMinutes sums lecture durations across all chapters.
func (c *Course) TotalDurationMinutes() float64 {
	var total float64
	for _, ch := range c.Chapters {
		for _, l := range ch.Lectures {
			total += l.DurationMinutes
		}
	}
	return total
}

// AverageRating returns the arithmetic mean of all ratings rounded to one
// decimal place, or 0 when there are none.
func (c *Course) AverageRating() float64 {
	if len(c.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range c.Ratings {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(c.Ratings))*10) / 10
}

// DiscountedPrice is the charge amount: price after discount, rounded
// half-up to two decimals.
func (c *Course) DiscountedPrice() float64 {
	amount := c.Price - c.Price*c.Discount/100
	return math.Round(amount*100) / 100
}

// IsEnrolled reports whether the user id is in the enrolled-student set.
func (c *Course) IsEnrolled(userID string) bool {
	return c.EnrolledStudents.Contains(userID)
}

// ChapterList stores the nested chapter/lecture structure as JSONB.
type ChapterList []Chapter

// Value implements the driver.Valuer interface for JSONB
func (c ChapterList) Value() (driver.Value, error) {
	if c == nil {
		return json.Marshal([]Chapter{})
	}
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface for JSONB
func (c *ChapterList) Scan(value interface{}) error {
	return scanJSONB(value, c, func() { *c = ChapterList{} })
}

// RatingList stores per-user ratings as JSONB.
type RatingList []Rating

// Upsert replaces the entry for the user if one exists, otherwise appends.
// Returns the updated list; the receiver is not modified.
func (r RatingList) Upsert(userID string, rating int) RatingList {
	out := make(RatingList, len(r))
	copy(out, r)
	for i := range out {
		if out[i].UserID == userID {
			out[i].Rating = rating
			return out
		}
	}
	return append(out, Rating{UserID: userID, Rating: rating})
}

// Value implements the driver.Valuer interface for JSONB
func (r RatingList) Value() (driver.Value, error) {
	if r == nil {
		return json.Marshal([]Rating{})
	}
	return json.Marshal(r)
}

// Scan implements the sql.Scanner interface for JSONB
func (r *RatingList) Scan(value interface{}) error {
	return scanJSONB(value, r, func() { *r = RatingList{} })
}

// StringList stores an id set as a JSONB array. Membership is checked before
// insertion, so the slice never holds duplicates.
type StringList []string

// Contains reports whether s holds the given id.
func (s StringList) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add returns a list containing id, appending only when absent.
func (s StringList) Add(id string) StringList {
	if s.Contains(id) {
		return s
	}
	out := make(StringList, len(s), len(s)+1)
	copy(out, s)
	return append(out, id)
}

// Value implements the driver.Valuer interface for JSONB
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for JSONB
func (s *StringList) Scan(value interface{}) error {
	return scanJSONB(value, s, func() { *s = StringList{} })
}

// scanJSONB decodes a JSONB column value into dst. reset is called for NULL
// and empty inputs so scanned lists are never nil.
func scanJSONB(value interface{}, dst interface{}, reset func()) error {
	if value == nil {
		reset()
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		reset()
		return fmt.Errorf("cannot scan %T into %T", value, dst)
	}

	if len(bytes) == 0 {
		reset()
		return nil
	}

	return json.Unmarshal(bytes, dst)
}
