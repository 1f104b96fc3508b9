package ingest

import "testing"

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Opta", want: "opta"},
		{name: "whitespace collapsed", in: "  Li   Lei ", want: "li_lei"},
		{name: "punctuation stripped", in: "O'Neill-Jr.", want: "oneilljr"},
		{name: "mixed", in: "FC Bayern (II)", want: "fc_bayern_ii"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.in); got != tt.want {
				t.Fatalf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMakeUID(t *testing.T) {
	tests := []struct {
		name       string
		kind       string
		provider   string
		providerID string
		fullName   string
		birthDate  string
		want       string
	}{
		{
			name:       "player with provider id",
			kind:       "player",
			provider:   "Opta",
			providerID: "P123",
			want:       "plr_opta_p123",
		},
		{
			name:      "player fallback hash",
			kind:      "player",
			fullName:  "Li Lei",
			birthDate: "1990-01-01",
			want:      "plr_global_5c60df7e51",
		},
		{
			name:       "coach prefix",
			kind:       "Coach",
			provider:   "opta",
			providerID: "C9",
			want:       "coach_opta_c9",
		},
		{
			name:       "referee prefix",
			kind:       "referee",
			provider:   "uefa",
			providerID: "R1",
			want:       "ref_uefa_r1",
		},
		{
			name: "fallback with nothing known",
			kind: "referee",
			want: "ref_global_3eb416223e",
		},
		{
			name:       "team has no generator",
			kind:       "team",
			provider:   "opta",
			providerID: "T1",
			want:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MakeUID(tt.kind, tt.provider, tt.providerID, tt.fullName, tt.birthDate)
			if got != tt.want {
				t.Fatalf("MakeUID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMakeUIDDeterministic(t *testing.T) {
	a := MakeUID("player", "", "", "Li Lei", "1990-01-01")
	b := MakeUID("player", "", "", "li   lei", "1990-01-01")
	if a != b {
		t.Fatalf("normalized names should collapse to one uid: %q vs %q", a, b)
	}

	c := MakeUID("player", "", "", "Li Lei", "1991-01-01")
	if a == c {
		t.Fatalf("different birth dates must not collide: %q", a)
	}
}

func TestHasUIDGenerator(t *testing.T) {
	for _, kind := range []string{"player", "coach", "referee", " Player "} {
		if !HasUIDGenerator(kind) {
			t.Fatalf("expected generator for %q", kind)
		}
	}
	for _, kind := range []string{"team", "match", "jersey", ""} {
		if HasUIDGenerator(kind) {
			t.Fatalf("unexpected generator for %q", kind)
		}
	}
}
