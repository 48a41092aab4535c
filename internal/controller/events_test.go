package controller

import "testing"

func TestParseButton(t *testing.T) {
	cases := map[string]Button{
		"select": ButtonSelectConfirm,
		"INFO":   ButtonInfoAllergens,
		" back ": ButtonBackCancelDelete,
		"mode":   ButtonModeToggle,
		"help":   ButtonHelpClear,
	}
	for input, want := range cases {
		got, err := ParseButton(input)
		if err != nil || got != want {
			t.Fatalf("ParseButton(%q) = %v, %v; want %v", input, got, err, want)
		}
	}

	if _, err := ParseButton("eject"); err == nil {
		t.Fatal("expected error for unknown button")
	}
}

func TestParseDialDirection(t *testing.T) {
	if got, err := ParseDialDirection("Next"); err != nil || got != DialNext {
		t.Fatalf("ParseDialDirection(Next) = %v, %v", got, err)
	}
	if got, err := ParseDialDirection("previous"); err != nil || got != DialPrevious {
		t.Fatalf("ParseDialDirection(previous) = %v, %v", got, err)
	}
	if _, err := ParseDialDirection("sideways"); err == nil {
		t.Fatal("expected error for unknown direction")
	}
}

func TestModeString(t *testing.T) {
	if ModeScanning.String() != "scanning" || ModeItemScanned.String() != "item_scanned" || ModeCartReview.String() != "cart_review" {
		t.Fatal("unexpected mode names")
	}
	if Mode(42).String() != "unknown" {
		t.Fatal("expected unknown for out-of-range mode")
	}
}
