package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the intake banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"  _       _        _        ", "#34d399"},
		{" (_)_ __ | |_ __ _| | _____ ", "#2dd4bf"},
		{" | | '_ \\| __/ _` | |/ / _ \\", "#22d3ee"},
		{" | | | | | || (_| |   <  __/", "#38bdf8"},
		{" |_|_| |_|\\__\\__,_|_|\\_\\___|", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String(" project intake "+version).Faint())
	fmt.Fprintln(w)
}
