package statusutil

import (
	"testing"

	"docdesk/internal/model"
)

var defs = []model.StatusDef{
	{ID: "draft", Label: "Draft"},
	{ID: "pending", Label: "Pending Review"},
	{ID: "released", Label: "Released"},
}

func TestNormalizeStatusID(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"draft", "draft", false},
		{"DRAFT", "draft", false},
		{"  released ", "released", false},
		{"pending review", "pending", false},
		{"", "", true},
		{"   ", "", true},
		{"archived", "", true},
	}
	for _, tc := range cases {
		got, err := NormalizeStatusID(defs, tc.in)
		if tc.wantErr && err == nil {
			t.Fatalf("NormalizeStatusID(%q): expected error", tc.in)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("NormalizeStatusID(%q): unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeStatusID(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestValidateStatusID(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"draft", true},
		{"released", true},
		{"Draft", false},
		{"nope", false},
	}
	for _, tc := range cases {
		if got := ValidateStatusID(defs, tc.in); got != tc.want {
			t.Fatalf("ValidateStatusID(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestChoices_MarksCurrentAndKeepsEveryStatus(t *testing.T) {
	got := Choices(defs, "pending")
	if len(got) != len(defs) {
		t.Fatalf("expected %d choices, got %d", len(defs), len(got))
	}
	for i, c := range got {
		if c.Def.ID != defs[i].ID {
			t.Fatalf("choice %d: expected %q, got %q", i, defs[i].ID, c.Def.ID)
		}
		if c.Current != (c.Def.ID == "pending") {
			t.Fatalf("choice %q: unexpected current=%v", c.Def.ID, c.Current)
		}
	}
}

func TestLabel(t *testing.T) {
	if got := Label(defs, "pending"); got != "Pending Review" {
		t.Fatalf("expected label, got %q", got)
	}
	if got := Label(defs, "unknown"); got != "unknown" {
		t.Fatalf("expected id fallback, got %q", got)
	}
}
