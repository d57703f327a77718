package tui

import "strings"

// FooterModel shows the key hints and the run status.
type FooterModel struct {
	width    int
	paused   bool
	done     bool
	hasError bool
}

// NewFooterModel returns a footer for a running calculation.
func NewFooterModel() FooterModel {
	return FooterModel{}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// SetPaused toggles the paused indicator.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetDone marks the run as finished.
func (f *FooterModel) SetDone(d bool) { f.done = d }

// SetError marks the run as failed.
func (f *FooterModel) SetError(e bool) { f.hasError = e }

func (f FooterModel) status() string {
	switch {
	case f.hasError:
		return statusErrorStyle.Render("ERROR")
	case f.done:
		return statusDoneStyle.Render("DONE")
	case f.paused:
		return statusPausedStyle.Render("PAUSED")
	default:
		return statusRunningStyle.Render("RUNNING")
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	hints := [][2]string{{"q", "quit"}, {"space", "pause"}, {"r", "restart"}, {"↑/↓", "scroll"}}
	parts := make([]string, 0, len(hints)+1)
	for _, h := range hints {
		parts = append(parts, footerKeyStyle.Render(h[0])+" "+footerDescStyle.Render(h[1]))
	}
	parts = append(parts, f.status())
	return strings.Join(parts, "  ")
}
