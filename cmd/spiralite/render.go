package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/PabloGalante/spiralite/internal/app/interpret"
	"github.com/PabloGalante/spiralite/internal/app/journal"
	"github.com/PabloGalante/spiralite/internal/domain"
)

const dateLayout = "2006-01-02 15:04"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A99"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5A4FCF")).
			Padding(0, 1)
)

func personaStyle(id domain.PersonaID) lipgloss.Style {
	p, ok := domain.LookupPersona(id)
	if !ok {
		return mutedStyle
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Bold(true)
}

func dreamTypeStyle(t domain.DreamType) lipgloss.Style {
	info, ok := t.Info()
	if !ok {
		return mutedStyle
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(info.Color))
}

func dreamTypeLabel(t domain.DreamType) string {
	if !t.Valid() {
		return "Unclassified"
	}
	return string(t)
}

func personaLabel(id domain.PersonaID) string {
	if p, ok := domain.LookupPersona(id); ok {
		return p.Name
	}
	return string(id)
}

// renderDreamLine is the one-line form used by list and groups.
func renderDreamLine(w io.Writer, d domain.Dream) {
	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		mutedStyle.Render(string(d.ID)),
		titleStyle.Render(d.Name),
		personaStyle(d.Persona).Render(personaLabel(d.Persona)),
		dreamTypeStyle(d.DreamType).Render(dreamTypeLabel(d.DreamType)),
	)
}

func renderDream(w io.Writer, d domain.Dream) {
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Name))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(d.CreatedAt.Local().Format(dateLayout) + "  " + string(d.ID)))
	b.WriteString("\n")
	b.WriteString(personaStyle(d.Persona).Render(personaLabel(d.Persona)))
	b.WriteString("  ")
	b.WriteString(dreamTypeStyle(d.DreamType).Render(dreamTypeLabel(d.DreamType)))
	b.WriteString("\n\n")
	b.WriteString(d.Text)
	b.WriteString("\n\n")
	b.WriteString(d.Interpretation)
	if d.Rationale != "" {
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render(d.Rationale))
	}

	fmt.Fprintln(w, boxStyle.Render(b.String()))
}

func renderResult(w io.Writer, res interpret.Result) {
	var b strings.Builder
	b.WriteString(titleStyle.Render(res.Name))
	b.WriteString("\n")
	b.WriteString(dreamTypeStyle(res.DreamType).Render(res.Label()))
	b.WriteString("\n\n")
	b.WriteString(res.Interpretation)
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(res.Rationale))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("parsed via %s (confidence %.1f)", res.Method, res.Confidence)))

	fmt.Fprintln(w, boxStyle.Render(b.String()))
}

func renderGroups(w io.Writer, groups []journal.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no dreams recorded yet"))
		return
	}
	for _, g := range groups {
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s (%d)", g.Label, len(g.Dreams))))
		for _, d := range g.Dreams {
			renderDreamLine(w, d)
		}
		fmt.Fprintln(w)
	}
}

func renderInsights(w io.Writer, in journal.Insights) {
	fmt.Fprintln(w, headerStyle.Render("Journal insights"))
	fmt.Fprintf(w, "dreams: %d   average length: %d   unclassified: %d\n\n", in.Total, in.AverageLength, in.Unclassified)

	for _, p := range domain.Personas() {
		fmt.Fprintf(w, "%s %d\n", personaStyle(p.ID).Render(p.Name), in.ByPersona[p.ID])
	}
	fmt.Fprintln(w)
	for _, info := range domain.DreamTypes() {
		fmt.Fprintf(w, "%s %d\n", dreamTypeStyle(info.Name).Render(string(info.Name)), in.ByType[info.Name])
	}

	if len(in.Recent) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Recent"))
		for _, d := range in.Recent {
			renderDreamLine(w, d)
		}
	}
}

func renderPersonas(w io.Writer, personas []domain.Persona) {
	for _, p := range personas {
		fmt.Fprintf(w, "%s  %s\n", personaStyle(p.ID).Render(fmt.Sprintf("%-7s", p.Name)), p.Description)
	}
}

func renderDreamTypes(w io.Writer, infos []domain.DreamTypeInfo) {
	for _, info := range infos {
		fmt.Fprintln(w, dreamTypeStyle(info.Name).Render(info.Glyph+" "+string(info.Name))+mutedStyle.Render("  "+info.ID))
		fmt.Fprintf(w, "  %s\n  %s\n", info.TimeIndex, info.PrimaryFunction)
		if info.TypicalPhenomena != "" {
			fmt.Fprintf(w, "  %s\n", mutedStyle.Render(info.TypicalPhenomena))
		}
	}
}
