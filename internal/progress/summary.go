package progress

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

// Row statuses.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusSkipped = "skipped"
)

// Summary renders a boxed table of task outcomes once all tasks are done.
type Summary struct {
	w            io.Writer
	title        string
	contentWidth int
	rows         []row
}

type row struct {
	task    string
	status  string
	started time.Time
	dur     time.Duration
	exit    int
}

func NewSummary(w io.Writer, title string) *Summary {
	contentWidth := 78
	if width, ok := TermWidth(w); ok {
		contentWidth = clamp(width-4, 40, 78)
	}
	return &Summary{w: w, title: title, contentWidth: contentWidth}
}

func (s *Summary) Add(task, status string, started time.Time, dur time.Duration, exit int) {
	s.rows = append(s.rows, row{task: task, status: status, started: started, dur: dur, exit: exit})
}

func (s *Summary) Len() int { return len(s.rows) }

func (s *Summary) Print() {
	fmt.Fprintln(s.w, s.top())
	fmt.Fprintln(s.w, s.boxLine(twoCols("BuildScripts", s.title, s.contentWidth)))
	fmt.Fprintln(s.w, s.sep())
	fmt.Fprintln(s.w, s.headerLine())
	fmt.Fprintln(s.w, s.sep())
	for i := range s.rows {
		fmt.Fprintln(s.w, s.rowLine(i))
	}
	fmt.Fprintln(s.w, s.bottom())
}

func (s *Summary) top() string {
	return "┌" + strings.Repeat("─", s.contentWidth+2) + "┐"
}

func (s *Summary) sep() string {
	return "├" + strings.Repeat("─", s.contentWidth+2) + "┤"
}

func (s *Summary) bottom() string {
	return "└" + strings.Repeat("─", s.contentWidth+2) + "┘"
}

func (s *Summary) headerLine() string {
	return s.boxLine(joinCols([]col{
		{Text: "START", Width: 12},
		{Text: "TASK", Width: 28},
		{Text: "STATUS", Width: 8},
		{Text: "DURATION", Width: 10},
		{Text: "EXIT", Width: 4},
	}))
}

func (s *Summary) rowLine(i int) string {
	r := s.rows[i]

	startCol := ""
	if !r.started.IsZero() {
		startCol = r.started.Format("15:04:05.000")
	}
	durCol := "-"
	exitCol := "-"
	switch r.status {
	case StatusSuccess, StatusFail:
		durCol = FormatDuration(r.dur)
		exitCol = fmt.Sprintf("%d", r.exit)
	}

	return s.boxLine(joinCols([]col{
		{Text: startCol, Width: 12},
		{Text: r.task, Width: 28},
		{Text: r.status, Width: 8},
		{Text: durCol, Width: 10},
		{Text: exitCol, Width: 4},
	}))
}

func (s *Summary) boxLine(content string) string {
	c := content
	if runeLen(c) > s.contentWidth {
		c = trunc(c, s.contentWidth)
	}
	if runeLen(c) < s.contentWidth {
		c += strings.Repeat(" ", s.contentWidth-runeLen(c))
	}
	return "│ " + c + " │"
}

func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0ms"
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	m := int(d / time.Minute)
	sec := int(d/time.Second) % 60
	return fmt.Sprintf("%dm%02ds", m, sec)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func twoCols(left, right string, width int) string {
	l := strings.TrimRight(left, "\r\n")
	r := strings.TrimRight(right, "\r\n")
	if runeLen(l)+1+runeLen(r) > width {
		space := width - 1 - runeLen(r)
		if space < 0 {
			space = 0
		}
		l = trunc(l, space)
	}
	gap := width - runeLen(l) - runeLen(r)
	if gap < 1 {
		gap = 1
	}
	return l + strings.Repeat(" ", gap) + r
}

type col struct {
	Text  string
	Width int
}

func joinCols(cols []col) string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		out = append(out, padRight(trunc(c.Text, c.Width), c.Width))
	}
	return strings.Join(out, " ")
}

func padRight(s string, width int) string {
	n := runeLen(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func trunc(s string, width int) string {
	in := strings.TrimRight(s, "\r\n")
	if width <= 0 || runeLen(in) <= width {
		return in
	}
	if width == 1 {
		return truncRunes(in, 1)
	}
	return truncRunes(in, width-1) + "…"
}

func truncRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
