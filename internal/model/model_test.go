package model

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMatchKeyDeterministic(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	keyAB := MatchKey(a, b)
	keyBA := MatchKey(b, a)
	if keyAB != keyBA {
		t.Fatalf("key depends on order: %q vs %q", keyAB, keyBA)
	}

	parts := strings.Split(keyAB, "_")
	if len(parts) != 2 || parts[0] >= parts[1] {
		t.Fatalf("key parts must be sorted: %q", keyAB)
	}
}

func TestNewMatchCanonicalOrder(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	m1 := NewMatch(a, b)
	m2 := NewMatch(b, a)
	if m1.ID != m2.ID || m1.UserA != m2.UserA || m1.UserB != m2.UserB {
		t.Fatal("both argument orders must produce the same row")
	}
	if m1.UserA.String() >= m1.UserB.String() {
		t.Error("UserA must sort before UserB")
	}

	if !m1.Involves(a) || !m1.Involves(b) || m1.Involves(uuid.New()) {
		t.Error("Involves must cover exactly the two members")
	}
	if m1.OtherUser(a) != b || m1.OtherUser(b) != a {
		t.Error("OtherUser must return the opposite member")
	}
}

func TestSwipeActionHelpers(t *testing.T) {
	cases := []struct {
		action SwipeAction
		valid  bool
		isLike bool
	}{
		{SwipeActionLike, true, true},
		{SwipeActionSuperlike, true, true},
		{SwipeActionPass, true, false},
		{SwipeAction("wink"), false, false},
		{SwipeAction(""), false, false},
	}
	for _, tc := range cases {
		if tc.action.Valid() != tc.valid {
			t.Errorf("%q: Valid() = %v, want %v", tc.action, tc.action.Valid(), tc.valid)
		}
		if tc.action.IsLike() != tc.isLike {
			t.Errorf("%q: IsLike() = %v, want %v", tc.action, tc.action.IsLike(), tc.isLike)
		}
	}
}

func TestAgeAt(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		dob  time.Time
		want int
	}{
		{"birthday already passed", time.Date(1996, 3, 1, 0, 0, 0, 0, time.UTC), 30},
		{"birthday today", time.Date(1996, 6, 15, 0, 0, 0, 0, time.UTC), 30},
		{"birthday tomorrow", time.Date(1996, 6, 16, 0, 0, 0, 0, time.UTC), 29},
		{"birthday later this year", time.Date(1996, 12, 31, 0, 0, 0, 0, time.UTC), 29},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AgeAt(tc.dob, now); got != tc.want {
				t.Errorf("AgeAt = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestProfilePreferenceHelpers(t *testing.T) {
	p := &Profile{LookingFor: LookingForFemale, AgeMin: 25, AgeMax: 35}

	if !p.WantsGender(GenderFemale) || p.WantsGender(GenderMale) {
		t.Error("specific preference must match only that gender")
	}

	p.LookingFor = LookingForEveryone
	for _, g := range []Gender{GenderMale, GenderFemale, GenderOther} {
		if !p.WantsGender(g) {
			t.Errorf("everyone must accept %s", g)
		}
	}

	if p.WantsAge(24) || !p.WantsAge(25) || !p.WantsAge(35) || p.WantsAge(36) {
		t.Error("age range bounds must be inclusive")
	}
}
