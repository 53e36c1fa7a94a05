package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Tatami banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Warm mat colours, top to bottom
	lines := []struct {
		text, color string
	}{
		{"  _____     _                   _ ", "#fbbf24"},
		{" |_   _|_ _| |_ __ _ _ __ ___  (_)", "#f59e0b"},
		{"   | |/ _` | __/ _` | '_ ` _ \\ | |", "#f97316"},
		{"   | | (_| | || (_| | | | | | || |", "#ef4444"},
		{"   |_|\\__,_|\\__\\__,_|_| |_| |_||_|", "#dc2626"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Highlight colours s for terminal output. Plain when the profile has no colour.
func Highlight(s, color string) string {
	p := termenv.ColorProfile()
	return termenv.String(s).Foreground(p.Color(color)).Bold().String()
}
