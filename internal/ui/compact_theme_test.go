package ui

import (
	"testing"

	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/launcher/internal/model"
)

func TestCompactTheme_Size(t *testing.T) {
	th := NewCompactTheme()

	tests := []struct {
		name     string
		size     float32
		expected float32
	}{
		{"padding", th.Size(theme.SizeNamePadding), 3},
		{"inner padding", th.Size(theme.SizeNameInnerPadding), 6},
		{"text", th.Size(theme.SizeNameText), 13},
		{"caption", th.Size(theme.SizeNameCaptionText), 10},
		{"default", th.Size(theme.SizeNameScrollBar), theme.DefaultTheme().Size(theme.SizeNameScrollBar)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.size != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, tt.size)
			}
		})
	}
}

func TestStateImportance(t *testing.T) {
	tests := []struct {
		state    model.AcquisitionState
		expected widget.Importance
	}{
		{model.StateSucceeded, widget.SuccessImportance},
		{model.StateFailed, widget.DangerImportance},
		{model.StateFetching, widget.HighImportance},
		{model.StateResolving, widget.HighImportance},
		{model.StateIdle, widget.LowImportance},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := StateImportance(tt.state); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
