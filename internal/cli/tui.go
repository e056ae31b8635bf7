package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/fontparts/partsmap/pkg/colors"
	"github.com/fontparts/partsmap/pkg/observability"
)

// =============================================================================
// FrameProgressModel - Live progress of a frame sequence
// =============================================================================

// frameDoneMsg reports one finished frame.
type frameDoneMsg struct {
	index   int
	total   int
	elapsed time.Duration
	err     error
}

// framesFinishedMsg reports the end of the whole sequence.
type framesFinishedMsg struct {
	err error
}

const progressWidth = 40

// FrameProgressModel is the bubbletea model showing frame progress.
type FrameProgressModel struct {
	Total     int
	Done      int
	Failed    int
	Finished  bool
	Cancelled bool
	Err       error

	cancel  context.CancelFunc
	started time.Time
}

// NewFrameProgressModel creates a progress model for total frames. cancel
// stops the sequence when the user quits.
func NewFrameProgressModel(total int, cancel context.CancelFunc) FrameProgressModel {
	return FrameProgressModel{Total: total, cancel: cancel, started: time.Now()}
}

func (m FrameProgressModel) Init() tea.Cmd {
	return nil
}

func (m FrameProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case frameDoneMsg:
		if msg.total > 0 {
			m.Total = msg.total
		}
		if msg.err != nil {
			m.Failed++
		} else {
			m.Done++
		}
	case framesFinishedMsg:
		m.Finished = true
		m.Err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m FrameProgressModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Rendering frames"))
	b.WriteString("\n\n  ")

	filled := 0
	if m.Total > 0 {
		filled = m.Done * progressWidth / m.Total
	}
	b.WriteString(StyleNumber.Render(strings.Repeat("█", filled)))
	b.WriteString(StyleDim.Render(strings.Repeat("░", progressWidth-filled)))
	b.WriteString(fmt.Sprintf(" %s%s",
		StyleValue.Render(fmt.Sprintf("%d", m.Done)),
		StyleDim.Render(fmt.Sprintf("/%d", m.Total))))
	if m.Failed > 0 {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("  %d failed", m.Failed)))
	}
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s elapsed  q quit", time.Since(m.started).Round(100*time.Millisecond))))
	b.WriteString("\n")
	return b.String()
}

// teaHooks forwards frame completions to a running bubbletea program.
type teaHooks struct {
	observability.NoopPipelineHooks
	send func(tea.Msg)
}

func (h teaHooks) OnFrame(_ context.Context, index, total int, d time.Duration, err error) {
	h.send(frameDoneMsg{index: index, total: total, elapsed: d, err: err})
}

// =============================================================================
// Palette Table
// =============================================================================

// paletteTable renders the palette as a table with a colour chip per row.
func paletteTable(p colors.Palette) string {
	entries := p.Entries()
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rgb := e.RGB
		cmyk := e.CMYK
		rows[i] = []string{
			"  ",
			string(e.Type),
			e.Hex,
			e.HSL.String(),
			fmt.Sprintf("%.0f %.0f %.0f", rgb[0]*255, rgb[1]*255, rgb[2]*255),
			fmt.Sprintf("%.0f %.0f %.0f %.0f", cmyk[0]*100, cmyk[1]*100, cmyk[2]*100, cmyk[3]*100),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Type", "Hex", "HSL", "RGB", "CMYK").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 && row >= 0 && row < len(entries) {
				return lipgloss.NewStyle().Background(lipgloss.Color(entries[row].Hex))
			}
			if col == 1 {
				return StyleValue
			}
			return StyleDim
		})
	return t.Render()
}
