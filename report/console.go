package report

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// Row is one printed line of the live console report: one index structure
// under one configuration, at one point in the sweep.
type Row struct {
	Structure string
	Config    string
	Operation string
	LatencyNs int64
	AllocMB   uint64
	Objects   uint64
}

// Console writes a human-readable progress table as the benchmark sweep
// runs, colorizing latency so a regression stands out on a terminal.
type Console struct {
	w       io.Writer
	colored bool
}

func NewConsole(w io.Writer) *Console {
	colored := false
	if f, ok := w.(*os.File); ok {
		colored = term.IsTerminal(int(f.Fd()))
	}
	return &Console{w: w, colored: colored}
}

func (c *Console) PrintRow(r Row) {
	latency := fmt.Sprintf("%s/op", humanize.Comma(r.LatencyNs))
	if c.colored {
		latency = c.colorizeLatency(r.LatencyNs)
	}
	fmt.Fprintf(c.w, "%-12s config=%-6s %-22s %-20s alloc=%-8s objects=%s\n",
		r.Structure, r.Config, r.Operation, latency,
		humanize.Bytes(r.AllocMB*1024*1024), humanize.Comma(int64(r.Objects)))
}

func (c *Console) colorizeLatency(ns int64) string {
	text := fmt.Sprintf("%s ns/op", humanize.Comma(ns))
	switch {
	case ns < 1000:
		return color.GreenString(text)
	case ns < 100_000:
		return color.YellowString(text)
	default:
		return color.RedString(text)
	}
}

func (c *Console) PrintHeader(title string) {
	width := 80
	if f, ok := c.w.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	bar := ""
	for i := 0; i < width && i < len(title)+8; i++ {
		bar += "="
	}
	fmt.Fprintf(c.w, "%s\n%s\n%s\n", bar, title, bar)
}
