package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"app/internal/model"
)

// In-memory fakes of the repository interfaces. They reproduce the guarded
// SQL semantics (membership-checked inserts, pending-only resolution) so
// idempotence can be tested without a database.

type fakeCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*model.Course
}

func newFakeCourseRepo(courses ...*model.Course) *fakeCourseRepo {
	r := &fakeCourseRepo{courses: make(map[string]*model.Course)}
	for _, c := range courses {
		r.courses[c.CourseID] = c
	}
	return r
}

func (r *fakeCourseRepo) ListPublished(ctx context.Context) ([]model.Course, error) {
	out := []model.Course{}
	for _, c := range r.courses {
		if c.IsPublished {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) ListByEducator(ctx context.Context, educatorID string) ([]model.Course, error) {
	out := []model.Course{}
	for _, c := range r.courses {
		if c.EducatorID == educatorID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Course, error) {
	out := []model.Course{}
	for _, id := range ids {
		if c, ok := r.courses[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	if c.CourseID == "" {
		c.CourseID = fmt.Sprintf("course-%d", len(r.courses)+1)
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	copied := *c
	r.courses[c.CourseID] = &copied
	return nil
}

func (r *fakeCourseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[courseID]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCourseRepo) AddEnrolledStudent(ctx context.Context, courseID, userID string) error {
	c, ok := r.courses[courseID]
	if !ok {
		return nil
	}
	c.EnrolledStudents = c.EnrolledStudents.Add(userID)
	return nil
}

func (r *fakeCourseRepo) UpsertRating(ctx context.Context, courseID, userID string, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[courseID]
	if !ok {
		return nil
	}
	c.Ratings = c.Ratings.Upsert(userID, rating)
	return nil
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*model.User)}
	for _, u := range users {
		r.users[u.UserID] = u
	}
	return r
}

func (r *fakeUserRepo) UpsertUser(ctx context.Context, u *model.User) error {
	if existing, ok := r.users[u.UserID]; ok {
		existing.Name = u.Name
		existing.Email = u.Email
		existing.AvatarURL = u.AvatarURL
		*u = *existing
		return nil
	}
	copied := *u
	r.users[u.UserID] = &copied
	return nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) DeleteUser(ctx context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, id, role string) error {
	if u, ok := r.users[id]; ok {
		u.Role = role
	}
	return nil
}

func (r *fakeUserRepo) AddEnrolledCourse(ctx context.Context, userID, courseID string) error {
	if u, ok := r.users[userID]; ok {
		u.EnrolledCourses = u.EnrolledCourses.Add(courseID)
	}
	return nil
}

type fakePurchaseRepo struct {
	purchases map[string]*model.Purchase
}

func newFakePurchaseRepo(purchases ...*model.Purchase) *fakePurchaseRepo {
	r := &fakePurchaseRepo{purchases: make(map[string]*model.Purchase)}
	for _, p := range purchases {
		r.purchases[p.PurchaseID] = p
	}
	return r
}

func (r *fakePurchaseRepo) CreatePurchase(ctx context.Context, p *model.Purchase) error {
	if p.PurchaseID == "" {
		p.PurchaseID = fmt.Sprintf("purchase-%d", len(r.purchases)+1)
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	copied := *p
	r.purchases[p.PurchaseID] = &copied
	return nil
}

func (r *fakePurchaseRepo) GetPurchaseByID(ctx context.Context, id string) (*model.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakePurchaseRepo) MarkCompleted(ctx context.Context, id string) (bool, error) {
	return r.resolve(id, model.PurchaseStatusCompleted), nil
}

func (r *fakePurchaseRepo) MarkFailed(ctx context.Context, id string) (bool, error) {
	return r.resolve(id, model.PurchaseStatusFailed), nil
}

func (r *fakePurchaseRepo) resolve(id, status string) bool {
	p, ok := r.purchases[id]
	if !ok || p.Status != model.PurchaseStatusPending {
		return false
	}
	p.Status = status
	return true
}

func (r *fakePurchaseRepo) ListCompletedByCourseIDs(ctx context.Context, courseIDs []string) ([]model.Purchase, error) {
	out := []model.Purchase{}
	for _, id := range courseIDs {
		for _, p := range r.purchases {
			if p.CourseID == id && p.Status == model.PurchaseStatusCompleted {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

type fakeProgressRepo struct {
	progress map[string]*model.CourseProgress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{progress: make(map[string]*model.CourseProgress)}
}

func progressKey(userID, courseID string) string {
	return userID + "/" + courseID
}

func (r *fakeProgressRepo) GetProgress(ctx context.Context, userID, courseID string) (*model.CourseProgress, error) {
	p, ok := r.progress[progressKey(userID, courseID)]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProgressRepo) AddCompletedLecture(ctx context.Context, userID, courseID, lectureID string) error {
	key := progressKey(userID, courseID)
	p, ok := r.progress[key]
	if !ok {
		p = &model.CourseProgress{UserID: userID, CourseID: courseID, LecturesCompleted: model.StringList{}}
		r.progress[key] = p
	}
	p.LecturesCompleted = p.LecturesCompleted.Add(lectureID)
	return nil
}

type fakePublisher struct {
	published [][]byte
	topics    []string
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	p.published = append(p.published, payload)
	p.topics = append(p.topics, topic)
	return fmt.Sprintf("msg-%d", len(p.published)), nil
}
