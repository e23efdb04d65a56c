package usecase_test

import (
	"context"
	"errors"
	"testing"

	"site-analytics-service/internal/stats/core/usecase"
)

func TestResetEvents_ScopedDelete(t *testing.T) {
	access := &fakeSiteAccess{owned: map[int64][]string{1: {"site_aaaaaaaa"}}}
	events := &fakeEventReader{deleteCount: 7}
	uc := usecase.NewResetEventsUseCase(usecase.NewScopeGate(access), events)

	n, err := uc.Execute(context.Background(), 1, "site_aaaaaaaa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Fatalf("expected 7 deleted, got %d", n)
	}
	if len(events.deletedSites) != 1 || events.deletedSites[0] != "site_aaaaaaaa" {
		t.Fatalf("delete ran outside the scope: %v", events.deletedSites)
	}
}

func TestResetEvents_NoFilterDeletesAllOwned(t *testing.T) {
	access := &fakeSiteAccess{owned: map[int64][]string{
		1: {"site_aaaaaaaa", "site_bbbbbbbb"},
	}}
	events := &fakeEventReader{deleteCount: 3}
	uc := usecase.NewResetEventsUseCase(usecase.NewScopeGate(access), events)

	n, err := uc.Execute(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 deleted, got %d", n)
	}
	if len(events.deletedSites) != 2 {
		t.Fatalf("expected both owned sites in scope, got %v", events.deletedSites)
	}
}

func TestResetEvents_EmptyScopeDeletesNothing(t *testing.T) {
	access := &fakeSiteAccess{owned: map[int64][]string{}}
	events := &fakeEventReader{}
	uc := usecase.NewResetEventsUseCase(usecase.NewScopeGate(access), events)

	n, err := uc.Execute(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("an empty scope must not fail: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 deleted, got %d", n)
	}
	if events.deleteCalled {
		t.Fatalf("delete must not run against an empty scope")
	}
}

func TestResetEvents_ForeignSiteRejected(t *testing.T) {
	access := &fakeSiteAccess{owned: map[int64][]string{
		1: {"site_aaaaaaaa"},
		2: {"site_bbbbbbbb"},
	}}
	events := &fakeEventReader{}
	uc := usecase.NewResetEventsUseCase(usecase.NewScopeGate(access), events)

	_, err := uc.Execute(context.Background(), 1, "site_bbbbbbbb")
	if !errors.Is(err, usecase.ErrNotFoundOrForbidden) {
		t.Fatalf("expected ErrNotFoundOrForbidden, got %v", err)
	}
	if events.deleteCalled {
		t.Fatalf("delete reached the repository despite failing the gate")
	}
}
