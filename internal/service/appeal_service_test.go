package service

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
)

func newAppealFixture(t *testing.T) (*AppealService, *fakeUserStore, model.User) {
	t.Helper()
	users := newFakeUserStore()
	appeals := newFakeAppealStore()
	svc := NewAppealService(appeals, users, testLogger())

	u := model.User{
		WhatsAppNumber: "15550002222",
		Status:         model.UserRejected,
		RejectionCount: 1,
	}
	if err := users.Create(context.Background(), &u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return svc, users, u
}

func TestSinglePendingAppealRule(t *testing.T) {
	svc, _, u := newAppealFixture(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, u.ID, "please reconsider my application"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, u.ID, "another try"); !errors.Is(err, ErrPendingAppealExists) {
		t.Fatalf("err = %v, want ErrPendingAppealExists", err)
	}

	has, err := svc.HasPending(ctx, u.ID)
	if err != nil || !has {
		t.Fatalf("HasPending = %v, %v; want true, nil", has, err)
	}
}

func TestAcceptedAppealResetsUserToPending(t *testing.T) {
	svc, users, u := newAppealFixture(t)
	ctx := context.Background()

	ap, err := svc.Create(ctx, u.ID, "please reconsider my application")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.UpdateStatus(ctx, ap.ID, model.AppealAccepted, nil)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != model.AppealAccepted {
		t.Fatalf("appeal status = %s, want ACCEPTED", got.Status)
	}

	// The user re-enters the review queue; the rejection history stays.
	after, _ := users.GetByID(ctx, u.ID)
	if after.Status != model.UserPending {
		t.Fatalf("user status = %s, want PENDING", after.Status)
	}
	if after.RejectionCount != u.RejectionCount {
		t.Fatalf("rejection count changed: %d -> %d", u.RejectionCount, after.RejectionCount)
	}
}

func TestRejectedAppealLeavesUserUntouched(t *testing.T) {
	svc, users, u := newAppealFixture(t)
	ctx := context.Background()

	ap, err := svc.Create(ctx, u.ID, "please reconsider my application")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, ap.ID, model.AppealRejected, nil); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	after, _ := users.GetByID(ctx, u.ID)
	if after.Status != model.UserRejected {
		t.Fatalf("user status = %s, want REJECTED", after.Status)
	}
}

func TestAppealProcessedOnlyOnce(t *testing.T) {
	svc, _, u := newAppealFixture(t)
	ctx := context.Background()

	ap, err := svc.Create(ctx, u.ID, "please reconsider my application")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, ap.ID, model.AppealRejected, nil); err != nil {
		t.Fatalf("first decision: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, ap.ID, model.AppealAccepted, nil); !errors.Is(err, ErrAppealProcessed) {
		t.Fatalf("err = %v, want ErrAppealProcessed", err)
	}
}

func TestAppealStats(t *testing.T) {
	svc, _, u := newAppealFixture(t)
	ctx := context.Background()

	ap, err := svc.Create(ctx, u.ID, "please reconsider my application")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, ap.ID, model.AppealRejected, nil); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if _, err := svc.Create(ctx, u.ID, "one more appeal attempt"); err != nil {
		t.Fatalf("second Create: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := AppealStats{Total: 2, Pending: 1, Rejected: 1}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}
