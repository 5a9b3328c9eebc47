package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the blueprint banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{" _     _                       _       _   ", "#34d399"},
		{"| |__ | |_   _  ___ _ __  _ __(_)_ __ | |_ ", "#2dd4bf"},
		{"| '_ \\| | | | |/ _ \\ '_ \\| '__| | '_ \\| __|", "#22d3ee"},
		{"| |_) | | |_| |  __/ |_) | |  | | | | | |_ ", "#38bdf8"},
		{"|_.__/|_|\\__,_|\\___| .__/|_|  |_|_| |_|\\__|", "#60a5fa"},
		{"                   |_|                      ", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  group workout planner "+version).Faint())
	fmt.Fprintln(w)
}
