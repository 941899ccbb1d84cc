package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

var (
	salmonPink = lipgloss.Color("#FFB3BA")
	mintGreen  = lipgloss.Color("#A8E6CF")
	mutedGray  = lipgloss.Color("#6B7280")

	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Width(16)

	valueStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	argStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)
)

// printer renders the resolved launch. Plain output skips styling.
type printer struct {
	w     io.Writer
	plain bool
}

func (p *printer) header(title string) {
	if p.plain {
		fmt.Fprintln(p.w, title)
		return
	}
	fmt.Fprintln(p.w, headerStyle.Render(title))
}

func (p *printer) field(label string, value any) {
	if p.plain {
		fmt.Fprintf(p.w, "%s: %v\n", label, value)
		return
	}
	fmt.Fprintln(p.w, lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render(label), valueStyle.Render(fmt.Sprint(value))))
}

func (p *printer) args(list []string) {
	if p.plain {
		for _, a := range list {
			fmt.Fprintf(p.w, "  %s\n", a)
		}
		return
	}
	lines := make([]string, len(list))
	for i, a := range list {
		lines[i] = argStyle.Render(a)
	}
	fmt.Fprintln(p.w, boxStyle.Render(strings.Join(lines, "\n")))
}

// json prints a JSON document, highlighted unless plain.
func (p *printer) json(source string) {
	if p.plain {
		fmt.Fprintln(p.w, source)
		return
	}
	if err := quick.Highlight(p.w, source, "json", "terminal256", "monokai"); err != nil {
		fmt.Fprintln(p.w, source)
		return
	}
	fmt.Fprintln(p.w)
}

// commandLine joins the executable and arguments into a shell command.
func commandLine(executable string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, shellQuote(executable))
	for _, a := range args {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

// shellQuote single-quotes s for POSIX shells when it holds anything but
// plain flag characters.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_=./:,@+%", r)) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
