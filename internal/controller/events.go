package controller

import (
	"fmt"
	"strings"
)

// Mode is the interaction state. Exactly one mode is active at a time and
// only the controller mutates it.
type Mode int

const (
	ModeScanning Mode = iota
	ModeItemScanned
	ModeCartReview
)

func (m Mode) String() string {
	switch m {
	case ModeScanning:
		return "scanning"
	case ModeItemScanned:
		return "item_scanned"
	case ModeCartReview:
		return "cart_review"
	default:
		return "unknown"
	}
}

// Button identifies one of the device's physical or virtual controls.
type Button string

const (
	ButtonSelectConfirm    Button = "select"
	ButtonInfoAllergens    Button = "info"
	ButtonBackCancelDelete Button = "back"
	ButtonModeToggle       Button = "mode"
	ButtonHelpClear        Button = "help"
)

// ParseButton maps a wire identifier onto a button.
func ParseButton(value string) (Button, error) {
	switch Button(strings.ToLower(strings.TrimSpace(value))) {
	case ButtonSelectConfirm:
		return ButtonSelectConfirm, nil
	case ButtonInfoAllergens:
		return ButtonInfoAllergens, nil
	case ButtonBackCancelDelete:
		return ButtonBackCancelDelete, nil
	case ButtonModeToggle:
		return ButtonModeToggle, nil
	case ButtonHelpClear:
		return ButtonHelpClear, nil
	default:
		return "", fmt.Errorf("unknown button %q", value)
	}
}

// DialDirection is a rotary navigation step during cart review.
type DialDirection string

const (
	DialPrevious DialDirection = "previous"
	DialNext     DialDirection = "next"
)

// ParseDialDirection maps a wire identifier onto a dial direction.
func ParseDialDirection(value string) (DialDirection, error) {
	switch DialDirection(strings.ToLower(strings.TrimSpace(value))) {
	case DialPrevious:
		return DialPrevious, nil
	case DialNext:
		return DialNext, nil
	default:
		return "", fmt.Errorf("unknown dial direction %q", value)
	}
}
