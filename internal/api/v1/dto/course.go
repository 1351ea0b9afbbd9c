package dto

import (
	"time"

	"app/internal/editor"
	"app/internal/model"
)

// CourseSummaryDTO is a catalog entry: no content, no enrollment details.
type CourseSummaryDTO struct {
	CourseID      string    `json:"course_id"`
	EducatorID    string    `json:"educator_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Discount      float64   `json:"discount"`
	ThumbnailURL  string    `json:"thumbnail_url"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   int       `json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// CourseDetailDTO is the full course document as returned by the detail and
// enrolled-courses endpoints.
type CourseDetailDTO struct {
	CourseID      string            `json:"course_id"`
	EducatorID    string            `json:"educator_id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Price         float64           `json:"price"`
	Discount      float64           `json:"discount"`
	ThumbnailURL  string            `json:"thumbnail_url"`
	IsPublished   bool              `json:"is_published"`
	Chapters      model.ChapterList `json:"course_content"`
	Ratings       model.RatingList  `json:"course_ratings"`
	EnrolledCount int               `json:"enrolled_count"`
	AverageRating float64           `json:"average_rating"`
	TotalLectures int               `json:"total_lectures"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// CourseCreateDTO is the courseData JSON part of the multipart create request
type CourseCreateDTO struct {
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description"`
	Price       float64           `json:"price" validate:"gte=0"`
	Discount    float64           `json:"discount" validate:"gte=0,lte=100"`
	IsPublished bool              `json:"is_published"`
	Chapters    model.ChapterList `json:"course_content"`
}

// Content runs the submitted chapters through the draft editor projection so
// the stored course content is sorted by order regardless of the order the
// client serialized it in.
func (d *CourseCreateDTO) Content() model.ChapterList {
	draft := editor.State{}
	for _, ch := range d.Chapters {
		lectures := make([]editor.DraftLecture, 0, len(ch.Lectures))
		for _, l := range ch.Lectures {
			lectures = append(lectures, editor.DraftLecture{
				LectureID:       l.LectureID,
				Order:           l.Order,
				Title:           l.Title,
				DurationMinutes: l.DurationMinutes,
				VideoSource:     l.VideoSource,
				URL:             l.URL,
				IsPreviewFree:   l.IsPreviewFree,
			})
		}
		draft.Chapters = append(draft.Chapters, editor.DraftChapter{
			ChapterID: ch.ChapterID,
			Order:     ch.Order,
			Title:     ch.Title,
			Lectures:  lectures,
		})
	}
	return draft.CourseContent()
}

// NewCourseSummaryDTO maps a model course to its catalog representation
func NewCourseSummaryDTO(c *model.Course) CourseSummaryDTO {
	return CourseSummaryDTO{
		CourseID:      c.CourseID,
		EducatorID:    c.EducatorID,
		Title:         c.Title,
		Description:   c.Description,
		Price:         c.Price,
		Discount:      c.Discount,
		ThumbnailURL:  c.ThumbnailURL,
		AverageRating: c.AverageRating(),
		RatingCount:   len(c.Ratings),
		CreatedAt:     c.CreatedAt,
	}
}

// NewCourseDetailDTO maps a model course to its full representation
func NewCourseDetailDTO(c *model.Course) CourseDetailDTO {
	return CourseDetailDTO{
		CourseID:      c.CourseID,
		EducatorID:    c.EducatorID,
		Title:         c.Title,
		Description:   c.Description,
		Price:         c.Price,
		Discount:      c.Discount,
		ThumbnailURL:  c.ThumbnailURL,
		IsPublished:   c.IsPublished,
		Chapters:      c.Chapters,
		Ratings:       c.Ratings,
		EnrolledCount: len(c.EnrolledStudents),
		AverageRating: c.AverageRating(),
		TotalLectures: c.TotalLectures(),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
