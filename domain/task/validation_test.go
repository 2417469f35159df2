package task

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr error
	}{
		{name: "simple title", title: "Buy milk", wantErr: nil},
		{name: "empty", title: "", wantErr: ErrTitleRequired},
		{name: "exactly max length", title: strings.Repeat("a", MaxTitleLength), wantErr: nil},
		{name: "one over max length", title: strings.Repeat("a", MaxTitleLength+1), wantErr: ErrTitleTooLong},
		{name: "multibyte counted as characters", title: strings.Repeat("é", MaxTitleLength), wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTitle(tt.title)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTitle(%q) error = %v, want %v", tt.title, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	if got := NormalizeTitle("  Buy milk \t"); got != "Buy milk" {
		t.Errorf("NormalizeTitle() = %q, want %q", got, "Buy milk")
	}
	if err := ValidateTitle(NormalizeTitle("   ")); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("blank title error = %v, want %v", err, ErrTitleRequired)
	}
}

func TestIsValidationError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrTitleRequired, true},
		{ErrTitleTooLong, true},
		{ErrTitleTaken, true},
		{ErrNotFound, false},
		{errors.New("disk full"), false},
	}

	for _, tt := range tests {
		if got := IsValidationError(tt.err); got != tt.want {
			t.Errorf("IsValidationError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestTask_DisplayDescription(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"", NoDescription},
		{"  \n", NoDescription},
		{"2 litres", "2 litres"},
	}

	for _, tt := range tests {
		task := Task{Description: tt.description}
		if got := task.DisplayDescription(); got != tt.want {
			t.Errorf("DisplayDescription(%q) = %q, want %q", tt.description, got, tt.want)
		}
		if task.Description != tt.description {
			t.Errorf("DisplayDescription mutated description to %q", task.Description)
		}
	}
}
