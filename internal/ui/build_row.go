package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/launcher/internal/model"
)

// BuildRow is a compact catalog list row: name and summary on the left,
// acquisition state and percent on the right
type BuildRow struct {
	widget.BaseWidget

	localization *Localization

	nameLabel    *widget.Label
	summaryLabel *widget.Label
	stateLabel   *widget.Label
	percentLabel *widget.Label
}

// NewBuildRow creates an empty row
func NewBuildRow(localization *Localization) *BuildRow {
	row := &BuildRow{localization: localization}
	row.nameLabel = widget.NewLabel("")
	row.nameLabel.TextStyle = fyne.TextStyle{Bold: true}
	row.nameLabel.Truncation = fyne.TextTruncateEllipsis
	row.summaryLabel = widget.NewLabel("")
	row.summaryLabel.Truncation = fyne.TextTruncateEllipsis
	row.summaryLabel.SizeName = theme.SizeNameCaptionText
	row.stateLabel = widget.NewLabel("")
	row.stateLabel.Alignment = fyne.TextAlignTrailing
	row.percentLabel = widget.NewLabel("")
	row.percentLabel.Alignment = fyne.TextAlignTrailing
	row.ExtendBaseWidget(row)
	return row
}

// Update shows entry with its acquisition status
func (r *BuildRow) Update(entry model.BuildEntry, status BuildStatus) {
	r.nameLabel.SetText(entry.DisplayName())
	if entry.Summary != "" {
		r.summaryLabel.SetText(entry.Summary)
	} else {
		r.summaryLabel.SetText(DashPlaceholder)
	}

	r.stateLabel.Importance = StateImportance(status.State)
	r.stateLabel.SetText(r.localization.StateText(status.State))

	if percent := status.Percent(); percent >= 0 {
		r.percentLabel.SetText(fmt.Sprintf(ProgressLabelFormat, percent))
	} else {
		r.percentLabel.SetText("")
	}
}

// CreateRenderer creates the widget renderer
func (r *BuildRow) CreateRenderer() fyne.WidgetRenderer {
	// Helper to fix width using a transparent rectangle underneath
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	rightSide := container.NewVBox(
		fixedWidth(StateLabelWidth, r.stateLabel),
		fixedWidth(PercentLabelWidth, r.percentLabel),
	)
	leftSide := container.NewVBox(r.nameLabel, r.summaryLabel)

	sizer := canvas.NewRectangle(color.Transparent)
	sizer.SetMinSize(fyne.NewSize(RowMinWidth, RowMinHeight))

	content := container.NewStack(sizer, container.NewBorder(nil, nil, nil, rightSide, leftSide))
	return widget.NewSimpleRenderer(content)
}
