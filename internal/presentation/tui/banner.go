package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`  ___                  _ _                      _ `, "#818cf8"},
	{` / __| ___ _  _ _ _  __| | |__  ___  __ _ _ _ __| |`, "#a78bfa"},
	{` \__ \/ _ \ || | ' \/ _' | '_ \/ _ \/ _' | '_/ _' |`, "#c084fc"},
	{` |___/\___/\_,_|_||_\__,_|_.__/\___/\__,_|_| \__,_|`, "#f472b6"},
}

// PrintBanner writes the colored banner to w, using the color profile of w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
