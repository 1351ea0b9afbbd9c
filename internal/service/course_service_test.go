package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"app/internal/model"

	"github.com/rs/zerolog"
)

func ratedCourse() *model.Course {
	return &model.Course{
		CourseID:         "c1",
		EducatorID:       "e1",
		EnrolledStudents: model.StringList{"u1"},
		Ratings:          model.RatingList{},
	}
}

func TestRateCourseUpsertsByUser(t *testing.T) {
	repo := newFakeCourseRepo(ratedCourse())
	svc := NewCourseService(repo, zerolog.Nop())

	if err := svc.RateCourse(context.Background(), "c1", "u1", 3); err != nil {
		t.Fatalf("first rating returned error: %v", err)
	}
	if err := svc.RateCourse(context.Background(), "c1", "u1", 5); err != nil {
		t.Fatalf("second rating returned error: %v", err)
	}

	course, _ := repo.GetCourseByID(context.Background(), "c1")
	if len(course.Ratings) != 1 {
		t.Fatalf("expected exactly one rating entry, got %d", len(course.Ratings))
	}
	if course.Ratings[0].Rating != 5 {
		t.Errorf("rating = %d, want 5 (second call wins)", course.Ratings[0].Rating)
	}
	if avg := course.AverageRating(); avg != 5.0 {
		t.Errorf("average = %v, want 5.0", avg)
	}
}

// rendezvousCourseRepo holds every GetCourseByID call until all expected
// readers have arrived, forcing both raters to read the course before either
// one writes.
type rendezvousCourseRepo struct {
	*fakeCourseRepo
	reads *sync.WaitGroup
}

func (r *rendezvousCourseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	course, err := r.fakeCourseRepo.GetCourseByID(ctx, courseID)
	r.reads.Done()
	r.reads.Wait()
	return course, err
}

func TestRateCourseConcurrentUsersBothLand(t *testing.T) {
	course := ratedCourse()
	course.EnrolledStudents = model.StringList{"u1", "u2"}
	var reads sync.WaitGroup
	reads.Add(2)
	repo := &rendezvousCourseRepo{fakeCourseRepo: newFakeCourseRepo(course), reads: &reads}
	svc := NewCourseService(repo, zerolog.Nop())

	var done sync.WaitGroup
	done.Add(2)
	errs := make([]error, 2)
	go func() {
		defer done.Done()
		errs[0] = svc.RateCourse(context.Background(), "c1", "u1", 4)
	}()
	go func() {
		defer done.Done()
		errs[1] = svc.RateCourse(context.Background(), "c1", "u2", 5)
	}()
	done.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("rater %d returned error: %v", i+1, err)
		}
	}
	stored, _ := repo.fakeCourseRepo.GetCourseByID(context.Background(), "c1")
	if len(stored.Ratings) != 2 {
		t.Fatalf("stored ratings = %v, want entries for both u1 and u2", stored.Ratings)
	}
	byUser := map[string]int{}
	for _, entry := range stored.Ratings {
		byUser[entry.UserID] = entry.Rating
	}
	if byUser["u1"] != 4 || byUser["u2"] != 5 {
		t.Errorf("ratings by user = %v, want u1:4 u2:5", byUser)
	}
}

func TestRateCourseRejectsOutOfRange(t *testing.T) {
	repo := newFakeCourseRepo(ratedCourse())
	svc := NewCourseService(repo, zerolog.Nop())

	for _, rating := range []int{0, 6, -1} {
		err := svc.RateCourse(context.Background(), "c1", "u1", rating)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("rating %d: error = %v, want ErrValidation", rating, err)
		}
	}
	course, _ := repo.GetCourseByID(context.Background(), "c1")
	if len(course.Ratings) != 0 {
		t.Error("rejected rating mutated stored ratings")
	}
}

func TestRateCourseRequiresEnrollment(t *testing.T) {
	repo := newFakeCourseRepo(ratedCourse())
	svc := NewCourseService(repo, zerolog.Nop())

	err := svc.RateCourse(context.Background(), "c1", "stranger", 4)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

func TestRateCourseUnknownCourse(t *testing.T) {
	svc := NewCourseService(newFakeCourseRepo(), zerolog.Nop())
	err := svc.RateCourse(context.Background(), "missing", "u1", 4)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func contentCourse() *model.Course {
	return &model.Course{
		CourseID:   "c1",
		EducatorID: "e1",
		Chapters: model.ChapterList{
			{ChapterID: "ch1", Order: 1, Lectures: []model.Lecture{
				{LectureID: "l1", Order: 1, URL: "dQw4w9WgXcQ", IsPreviewFree: true},
				{LectureID: "l2", Order: 2, URL: "aaaaaaaaaaa", IsPreviewFree: false},
			}},
		},
	}
}

func TestGetCourseDetailRedactsPaidLectures(t *testing.T) {
	repo := newFakeCourseRepo(contentCourse())
	svc := NewCourseService(repo, zerolog.Nop())

	course, err := svc.GetCourseDetail(context.Background(), "c1", "someone-else")
	if err != nil {
		t.Fatalf("GetCourseDetail returned error: %v", err)
	}
	lectures := course.Chapters[0].Lectures
	if lectures[0].URL != "dQw4w9WgXcQ" {
		t.Error("free-preview lecture URL was redacted")
	}
	if lectures[1].URL != "" {
		t.Error("paid lecture URL leaked to non-owner")
	}
}

func TestGetCourseDetailOwnerSeesEverything(t *testing.T) {
	repo := newFakeCourseRepo(contentCourse())
	svc := NewCourseService(repo, zerolog.Nop())

	course, err := svc.GetCourseDetail(context.Background(), "c1", "e1")
	if err != nil {
		t.Fatalf("GetCourseDetail returned error: %v", err)
	}
	if course.Chapters[0].Lectures[1].URL == "" {
		t.Error("owner should see unredacted lecture URLs")
	}
}

func TestGetCourseDetailNotFound(t *testing.T) {
	svc := NewCourseService(newFakeCourseRepo(), zerolog.Nop())
	_, err := svc.GetCourseDetail(context.Background(), "missing", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
