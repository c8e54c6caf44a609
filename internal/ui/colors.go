package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/spx/internal/models"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	muted lipgloss.Style
}

func NewPalette(t, s, e, w, m string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		muted: NewEm(m),
	}
}

// Status renders a download status in its color.
func (p *Palette) Status(s models.DownloadStatus) string {
	switch s {
	case models.StatusDownloaded:
		return p.ok.Render(s.String())
	case models.StatusSkippedExisting:
		return p.muted.Render(s.String())
	case models.StatusTimedOut:
		return p.warn.Render(s.String())
	default:
		return p.err.Render(s.String())
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
