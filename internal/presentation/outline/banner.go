package outline

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner of the preview server to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct{ text, color string }{
		{"  ___            _ _         ", "#818cf8"},
		{" / __|_ __  ___ (_) |___ _ _ ", "#a78bfa"},
		{" \\__ \\ '_ \\/ _ \\| | / -_) '_|", "#c084fc"},
		{" |___/ .__/\\___/|_|_\\___|_|  ", "#e879f9"},
		{"     |_|                     ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
