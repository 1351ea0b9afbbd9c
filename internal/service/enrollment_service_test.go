package service

import (
	"context"
	"testing"

	"app/internal/model"

	"github.com/rs/zerolog"
)

func newEnrollmentFixture() (*fakePurchaseRepo, *fakeUserRepo, *fakeCourseRepo, *fakePublisher, EnrollmentService) {
	purchaseRepo := newFakePurchaseRepo(&model.Purchase{
		PurchaseID: "p1",
		CourseID:   "c1",
		UserID:     "u1",
		Amount:     39.99,
		Status:     model.PurchaseStatusPending,
	})
	userRepo := newFakeUserRepo(&model.User{UserID: "u1", Role: model.RoleStudent, EnrolledCourses: model.StringList{}})
	courseRepo := newFakeCourseRepo(&model.Course{CourseID: "c1", EducatorID: "e1", EnrolledStudents: model.StringList{}})
	publisher := &fakePublisher{}
	svc := NewEnrollmentService(purchaseRepo, userRepo, courseRepo, publisher, "purchase_events", zerolog.Nop())
	return purchaseRepo, userRepo, courseRepo, publisher, svc
}

func TestResolveCompletedEnrollsBothSides(t *testing.T) {
	purchaseRepo, userRepo, courseRepo, publisher, svc := newEnrollmentFixture()

	if err := svc.ResolveCompleted(context.Background(), "p1"); err != nil {
		t.Fatalf("ResolveCompleted returned error: %v", err)
	}

	course, _ := courseRepo.GetCourseByID(context.Background(), "c1")
	if !course.EnrolledStudents.Contains("u1") {
		t.Error("user not added to course enrolled students")
	}
	user, _ := userRepo.GetUserByID(context.Background(), "u1")
	if !user.EnrolledCourses.Contains("c1") {
		t.Error("course not added to user enrolled courses")
	}
	p, _ := purchaseRepo.GetPurchaseByID(context.Background(), "p1")
	if p.Status != model.PurchaseStatusCompleted {
		t.Errorf("purchase status = %s, want completed", p.Status)
	}
	if len(publisher.published) != 1 {
		t.Errorf("expected 1 purchase event, got %d", len(publisher.published))
	}
}

func TestResolveCompletedReplayIsNoOp(t *testing.T) {
	purchaseRepo, userRepo, courseRepo, publisher, svc := newEnrollmentFixture()

	if err := svc.ResolveCompleted(context.Background(), "p1"); err != nil {
		t.Fatalf("first ResolveCompleted returned error: %v", err)
	}
	if err := svc.ResolveCompleted(context.Background(), "p1"); err != nil {
		t.Fatalf("replayed ResolveCompleted returned error: %v", err)
	}

	course, _ := courseRepo.GetCourseByID(context.Background(), "c1")
	if len(course.EnrolledStudents) != 1 {
		t.Errorf("enrolled students = %v, want exactly one entry", course.EnrolledStudents)
	}
	user, _ := userRepo.GetUserByID(context.Background(), "u1")
	if len(user.EnrolledCourses) != 1 {
		t.Errorf("enrolled courses = %v, want exactly one entry", user.EnrolledCourses)
	}
	p, _ := purchaseRepo.GetPurchaseByID(context.Background(), "p1")
	if p.Status != model.PurchaseStatusCompleted {
		t.Errorf("purchase status changed on replay: %s", p.Status)
	}
	if len(publisher.published) != 1 {
		t.Errorf("replay published extra events: %d", len(publisher.published))
	}
}

func TestResolveCompletedUnknownPurchase(t *testing.T) {
	_, _, _, _, svc := newEnrollmentFixture()
	if err := svc.ResolveCompleted(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown purchase")
	}
}

func TestResolveCompletedMissingUserLeavesPending(t *testing.T) {
	purchaseRepo := newFakePurchaseRepo(&model.Purchase{
		PurchaseID: "p1", CourseID: "c1", UserID: "ghost", Status: model.PurchaseStatusPending,
	})
	userRepo := newFakeUserRepo()
	courseRepo := newFakeCourseRepo(&model.Course{CourseID: "c1", EnrolledStudents: model.StringList{}})
	svc := NewEnrollmentService(purchaseRepo, userRepo, courseRepo, nil, "", zerolog.Nop())

	if err := svc.ResolveCompleted(context.Background(), "p1"); err == nil {
		t.Fatal("expected error when user is missing")
	}
	p, _ := purchaseRepo.GetPurchaseByID(context.Background(), "p1")
	if p.Status != model.PurchaseStatusPending {
		t.Errorf("purchase status = %s, want pending (no partial resolution)", p.Status)
	}
	course, _ := courseRepo.GetCourseByID(context.Background(), "c1")
	if len(course.EnrolledStudents) != 0 {
		t.Error("enrollment mutated despite missing user")
	}
}

func TestResolveFailed(t *testing.T) {
	purchaseRepo, _, courseRepo, _, svc := newEnrollmentFixture()

	if err := svc.ResolveFailed(context.Background(), "p1"); err != nil {
		t.Fatalf("ResolveFailed returned error: %v", err)
	}
	p, _ := purchaseRepo.GetPurchaseByID(context.Background(), "p1")
	if p.Status != model.PurchaseStatusFailed {
		t.Errorf("purchase status = %s, want failed", p.Status)
	}
	course, _ := courseRepo.GetCourseByID(context.Background(), "c1")
	if len(course.EnrolledStudents) != 0 {
		t.Error("failed purchase must not enroll anyone")
	}

	// Replay and unknown id are both quiet no-ops.
	if err := svc.ResolveFailed(context.Background(), "p1"); err != nil {
		t.Errorf("replayed ResolveFailed returned error: %v", err)
	}
	if err := svc.ResolveFailed(context.Background(), "missing"); err != nil {
		t.Errorf("ResolveFailed for unknown purchase returned error: %v", err)
	}
}

func TestResolveFailedDoesNotOverrideCompleted(t *testing.T) {
	purchaseRepo, _, _, _, svc := newEnrollmentFixture()

	if err := svc.ResolveCompleted(context.Background(), "p1"); err != nil {
		t.Fatalf("ResolveCompleted returned error: %v", err)
	}
	if err := svc.ResolveFailed(context.Background(), "p1"); err != nil {
		t.Fatalf("ResolveFailed returned error: %v", err)
	}
	p, _ := purchaseRepo.GetPurchaseByID(context.Background(), "p1")
	if p.Status != model.PurchaseStatusCompleted {
		t.Errorf("terminal status overridden: %s", p.Status)
	}
}
