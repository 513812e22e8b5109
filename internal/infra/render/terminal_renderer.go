package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/TestimonialCarousel/internal/domain"
)

const cardWidth = 56

type terminalStyles struct {
	header  lipgloss.Style
	card    lipgloss.Style
	name    lipgloss.Style
	role    lipgloss.Style
	quote   lipgloss.Style
	stars   lipgloss.Style
	metric  lipgloss.Style
	muted   lipgloss.Style
	current lipgloss.Style
}

func newTerminalStyles(r *lipgloss.Renderer) terminalStyles {
	return terminalStyles{
		header: r.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")).
			Bold(true),
		card: r.NewStyle().
			Padding(0, 1).
			Width(cardWidth).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4B5563")),
		name: r.NewStyle().
			Bold(true),
		role: r.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF")),
		quote: r.NewStyle().
			Italic(true),
		stars: r.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")),
		metric: r.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true),
		muted: r.NewStyle().
			Foreground(lipgloss.Color("#6B7280")),
		current: r.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")),
	}
}

// TerminalRenderer draws the carousel as text cards. Only frames that change
// what is on screen (enter and refresh) redraw the cards; exit and settled
// frames print a one-line status.
type TerminalRenderer struct {
	mu     sync.Mutex
	out    io.Writer
	styles terminalStyles
}

func NewTerminalRenderer(out io.Writer) *TerminalRenderer {
	return &TerminalRenderer{
		out:    out,
		styles: newTerminalStyles(lipgloss.NewRenderer(out)),
	}
}

func (r *TerminalRenderer) Render(_ context.Context, frame domain.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	switch frame.Stage {
	case domain.StageEnter, domain.StageRefresh:
		b.WriteString(r.header(frame))
		b.WriteString("\n")
		for _, it := range frame.Items {
			b.WriteString(r.card(it))
			b.WriteString("\n")
		}
		b.WriteString(r.indicators(frame.Page, frame.TotalPages))
		b.WriteString("\n")
	default:
		b.WriteString(r.styles.muted.Render(fmt.Sprintf("[%s] %s page %d (%s)",
			frame.At, frame.Stage, frame.Page+1, frame.Trigger)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *TerminalRenderer) header(frame domain.Frame) string {
	if frame.TotalPages == 0 {
		return r.styles.header.Render(fmt.Sprintf("[%s] %s: no testimonials", frame.At, frame.Carousel))
	}
	return r.styles.header.Render(fmt.Sprintf("[%s] %s: page %d/%d (%s, %s)",
		frame.At, frame.Carousel, frame.Page+1, frame.TotalPages, frame.Trigger, frame.Direction))
}

func (r *TerminalRenderer) card(it domain.Item) string {
	lines := []string{r.styles.name.Render(it.Name)}

	role := it.Position
	if it.Company != "" {
		if role != "" {
			role += ", "
		}
		role += it.Company
	}
	if role != "" {
		lines = append(lines, r.styles.role.Render(role))
	}

	lines = append(lines, r.styles.stars.Render(StarBar(it.Stars())))
	lines = append(lines, r.styles.quote.Render("\""+it.Quote+"\""))

	if len(it.Metrics) > 0 {
		parts := make([]string, 0, len(it.Metrics))
		for _, m := range it.Metrics {
			parts = append(parts, r.styles.metric.Render(m.Value)+" "+m.Label)
		}
		lines = append(lines, strings.Join(parts, "  "))
	}

	return r.styles.card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (r *TerminalRenderer) indicators(page, total int) string {
	dots := make([]string, 0, total)
	for i := 0; i < total; i++ {
		if i == page {
			dots = append(dots, r.styles.current.Render("●"))
		} else {
			dots = append(dots, r.styles.muted.Render("○"))
		}
	}
	return strings.Join(dots, " ")
}

// StarBar renders stars filled stars out of domain.MaxRating.
func StarBar(stars int) string {
	if stars < 0 {
		stars = 0
	}
	if stars > domain.MaxRating {
		stars = domain.MaxRating
	}
	return strings.Repeat("★", stars) + strings.Repeat("☆", domain.MaxRating-stars)
}
