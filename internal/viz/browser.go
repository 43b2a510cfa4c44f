package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/sems/internal/scan"
)

// SortMode orders the rows of the browser.
type SortMode int

const (
	SortMarker SortMode = iota
	SortAbsSlope
	SortR2
)

func (s SortMode) String() string {
	switch s {
	case SortAbsSlope:
		return "|slope|"
	case SortR2:
		return "R²"
	}
	return "marker"
}

// Browser is a Bubble Tea model listing the fits of one run.
type Browser struct {
	title      string
	fits       []scan.Fit
	rows       []int
	traits     []int
	traitIdx   int // -1 shows every trait
	sortMode   SortMode
	hideFailed bool
	cursor     int
	offset     int
	width      int
	height     int
	theme      Theme
	st         styles
}

func NewBrowser(title string, fits []scan.Fit, theme Theme) *Browser {
	b := &Browser{
		title:    title,
		fits:     fits,
		traits:   TraitsIn(fits),
		traitIdx: -1,
		width:    80,
		height:   24,
		theme:    theme,
		st:       newStyles(theme),
	}
	b.refresh()
	return b
}

func (b *Browser) Init() tea.Cmd { return nil }

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.clamp()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return b, tea.Quit
		case "up", "k":
			b.cursor--
		case "down", "j":
			b.cursor++
		case "pgup":
			b.cursor -= b.pageSize()
		case "pgdown":
			b.cursor += b.pageSize()
		case "g", "home":
			b.cursor = 0
		case "G", "end":
			b.cursor = len(b.rows) - 1
		case "s":
			b.sortMode = (b.sortMode + 1) % 3
			b.refresh()
		case "t":
			b.traitIdx++
			if b.traitIdx >= len(b.traits) {
				b.traitIdx = -1
			}
			b.refresh()
		case "f":
			b.hideFailed = !b.hideFailed
			b.refresh()
		case "c":
			b.theme = nextTheme(b.theme)
			b.st = newStyles(b.theme)
		}
		b.clamp()
	}
	return b, nil
}

// Selected returns the fit under the cursor.
func (b *Browser) Selected() (scan.Fit, bool) {
	if len(b.rows) == 0 {
		return scan.Fit{}, false
	}
	return b.fits[b.rows[b.cursor]], true
}

func (b *Browser) refresh() {
	b.rows = b.rows[:0]
	for i, f := range b.fits {
		if b.traitIdx >= 0 && f.Trait != b.traits[b.traitIdx] {
			continue
		}
		if b.hideFailed && f.Failed() {
			continue
		}
		b.rows = append(b.rows, i)
	}

	key := func(i int) float64 {
		f := b.fits[i]
		var v float64
		switch b.sortMode {
		case SortAbsSlope:
			v = math.Abs(f.Slope)
		case SortR2:
			v = f.R2
		}
		if math.IsNaN(v) {
			return math.Inf(-1)
		}
		return v
	}
	if b.sortMode != SortMarker {
		sort.SliceStable(b.rows, func(i, j int) bool {
			return key(b.rows[i]) > key(b.rows[j])
		})
	}
	b.cursor, b.offset = 0, 0
}

func (b *Browser) pageSize() int {
	// title, blank, header, footer lines and hints
	return max(1, b.height-7)
}

func (b *Browser) clamp() {
	b.cursor = max(0, min(b.cursor, len(b.rows)-1))
	page := b.pageSize()
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+page {
		b.offset = b.cursor - page + 1
	}
}

func (b *Browser) View() string {
	var sb strings.Builder

	filter := "all traits"
	if b.traitIdx >= 0 {
		filter = "trait " + fmt.Sprint(b.traits[b.traitIdx])
	}
	sb.WriteString(b.st.title.Render(b.title))
	sb.WriteString(b.st.label.Render(fmt.Sprintf("  %d fits · sort %s · %s", len(b.rows), b.sortMode, filter)))
	sb.WriteString("\n\n")
	sb.WriteString(b.st.label.Render(fmt.Sprintf("  %-16s %-12s %12s %12s %8s  %s", "MARKER", "TRAIT", "a", "b", "R²", "|a|")))
	sb.WriteString("\n")

	top := 0.0
	for _, i := range b.rows {
		if a := math.Abs(b.fits[i].Slope); a > top {
			top = a
		}
	}

	end := min(len(b.rows), b.offset+b.pageSize())
	for r := b.offset; r < end; r++ {
		f := b.fits[b.rows[r]]
		line := fmt.Sprintf("%-16s %-12s %12s %12s %8s  %s",
			truncate(f.MarkerName, 16), truncate(f.TraitName, 12),
			formatValue(f.Slope), formatValue(f.Intercept), formatR2(f.R2),
			SlopeBar(f.Slope, top, 10))
		switch {
		case r == b.cursor:
			sb.WriteString(b.st.selected.Render("▸ " + line))
		case f.Failed():
			sb.WriteString(b.st.failed.Render("  " + line))
		default:
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	if f, ok := b.Selected(); ok && f.Failed() {
		sb.WriteString("\n" + b.st.failed.Render(truncate(f.Err, max(10, b.width-2))))
	} else {
		sb.WriteString("\n")
	}
	sb.WriteString("\n" + b.st.hint.Render("j/k move · s sort · t trait · f failed · c theme · q quit"))
	return sb.String()
}

func formatR2(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4f", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// RunBrowser blocks until the user quits the browser.
func RunBrowser(title string, fits []scan.Fit, theme Theme) error {
	_, err := tea.NewProgram(NewBrowser(title, fits, theme), tea.WithAltScreen()).Run()
	return err
}
