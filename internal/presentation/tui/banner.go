package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/cortex/pkg/domain"
	"github.com/muesli/termenv"
)

// PrintBanner writes the cortex banner, one region color per line.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	lines := []struct{ text, color string }{
		{"   ___ ___  _ __| |_ _____  __", "#ff6b9d"},
		{"  / __/ _ \\| '__| __/ _ \\ \\/ /", "#4ecdc4"},
		{" | (_| (_) | |  | ||  __/>  < ", "#ffe66d"},
		{"  \\___\\___/|_|   \\__\\___/_/\\_\\", "#a8e6cf"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// RegionSwatch renders a region as a colored block followed by its id and label.
func RegionSwatch(r domain.Region) string {
	p := termenv.EnvColorProfile()
	block := termenv.String("██").Foreground(p.Color(r.Color))
	return fmt.Sprintf("%s %-10s %s", block, r.ID, r.Label)
}
