package domain

import "testing"

func TestTaskStatusTransitions(t *testing.T) {
	cases := []struct {
		from    TaskStatus
		to      TaskStatus
		allowed bool
	}{
		{StatusToDo, StatusInProgress, true},
		{StatusToDo, StatusFailed, true},
		{StatusToDo, StatusDone, false},
		{StatusInProgress, StatusDone, true},
		{StatusInProgress, StatusFailed, true},
		{StatusInProgress, StatusToDo, false},
		{StatusDone, StatusInProgress, false},
		{StatusDone, StatusFailed, false},
		{StatusFailed, StatusToDo, false},
		{StatusFailed, StatusDone, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestTaskStatusOpen(t *testing.T) {
	// Everything except done is reassignable, failed included.
	for _, s := range []TaskStatus{StatusToDo, StatusInProgress, StatusFailed} {
		if !s.Open() {
			t.Errorf("%s should be open", s)
		}
	}
	if StatusDone.Open() {
		t.Errorf("done should not be open")
	}
}

func TestRolePrivileged(t *testing.T) {
	if !RoleAdmin.Privileged() || !RoleManager.Privileged() {
		t.Fatalf("admin and manager must be privileged")
	}
	if RoleClient.Privileged() {
		t.Fatalf("client must not be privileged")
	}
}
