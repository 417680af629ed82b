package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/bastiangx/fuzzyserve/internal/utils"
	"github.com/bastiangx/fuzzyserve/pkg/fuzzy"
	"github.com/bastiangx/fuzzyserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
)

const keyColumnWidth = 32

// styles are bound to the renderer of the output stream, so colors are
// dropped when it is not a terminal.
type styles struct {
	key   lipgloss.Style
	exact lipgloss.Style
	span  lipgloss.Style
	dim   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		key:   r.NewStyle().Foreground(lipgloss.Color("75")),
		exact: r.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		span:  r.NewStyle().Underline(true),
		dim:   r.NewStyle().Faint(true),
	}
}

// formatSuggestion renders one result line: rank, keys, score and, when
// requested, the matched span inside the best key.
func (st styles) formatSuggestion(s suggest.Suggestion, showData bool) string {
	keys := utils.PadRight(strings.Join(s.Keys, ", "), keyColumnWidth)

	score := fmt.Sprintf("%5.3f", s.Score)
	if s.Score == fuzzy.ExactMatchScore {
		score = st.exact.Render(fmt.Sprintf("%5s", "exact"))
	}

	line := fmt.Sprintf("%2d. %s (score: %s)", s.Rank, st.key.Render(keys), score)
	if showData && s.Original != "" {
		line += "  " + st.highlightSpan(s.Original, s.Index, s.Length)
	}
	return line
}

// highlightSpan marks original[index:index+length]. Spans outside original
// are shown unmarked.
func (st styles) highlightSpan(original string, index, length int) string {
	end := index + length
	if index < 0 || length <= 0 || end > len(original) {
		return st.dim.Render(original)
	}
	return st.dim.Render(original[:index]) +
		st.span.Render(original[index:end]) +
		st.dim.Render(original[end:])
}

// printStats prints the completer statistics in key order.
func (h *InputHandler) printStats() {
	stats := h.completer.Stats()
	names := make([]string, 0, len(stats))
	width := 0
	for k := range stats {
		names = append(names, k)
		width = max(width, utils.DisplayWidth(k))
	}
	slices.Sort(names)

	h.out.Printf("threshold: %v", h.completer.Threshold())
	for _, k := range names {
		h.out.Printf("%s %s", utils.PadRight(k+":", width+1), utils.FormatWithCommas(stats[k]))
	}
}
