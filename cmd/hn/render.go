package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ReyWins/happeningnow-news-core/internal/composer"
)

func renderPage(w io.Writer, fp composer.FrontPage) {
	fmt.Fprintln(w, "== TOP STORIES ==")
	for i, s := range fp.Top {
		marker := " "
		if s.ID == fp.Featured.ID {
			marker = ">"
		}
		fmt.Fprintf(w, "%s %d. %s\n", marker, i+1, cardLine(composer.NewCard(s)))
	}

	if len(fp.Paged) > 0 {
		fmt.Fprintf(w, "\n== MORE STORIES (page %d of %d) ==\n", fp.Page+1, fp.MaxPage+1)
		for i, col := range fp.Columns {
			if len(col) == 0 {
				continue
			}
			label := col[0].Kicker
			if i < len(fp.Top) {
				label = fp.Top[i].Kicker
			}
			fmt.Fprintf(w, "-- %s --\n", label)
			for _, s := range col {
				fmt.Fprintf(w, "   %s\n", cardLine(composer.NewCard(s)))
			}
		}
	}

	if fp.Status != "" {
		fmt.Fprintf(w, "\n%s\n", fp.Status)
	}
}

func cardLine(c composer.Card) string {
	s := c.Story
	switch c.State {
	case composer.CardLoading:
		return fmt.Sprintf("[%s] Loading...", s.Kicker)
	case composer.CardError:
		return fmt.Sprintf("[%s] %s (retry with: hn front --retries 1)", s.Kicker, s.Title)
	case composer.CardMissing:
		return fmt.Sprintf("[%s] %s", s.Kicker, s.Title)
	}

	var flags []string
	if s.Breaking {
		flags = append(flags, "BREAKING")
	}
	if s.Featured {
		flags = append(flags, "featured")
	}
	line := fmt.Sprintf("[%s] %s", s.Kicker, s.Title)
	if len(flags) > 0 {
		line += " {" + strings.Join(flags, ", ") + "}"
	}
	if s.Source != "" {
		line += " - " + s.Source
	}
	if s.URL != "" {
		line += "\n      " + s.URL
	}
	return line + "\n      id: " + s.ID
}
