package exporter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"
)

// labelWidth caps the first column of text tables.
const labelWidth = 35

// WriteText prints t as an aligned plain-text table: the title, a header
// line, then one line per row. Labels are left aligned and truncated to
// labelWidth characters; numbers are right aligned.
func WriteText(w io.Writer, t *Table) error {
	if t.Title != "" {
		if _, err := fmt.Fprintln(w, t.Title); err != nil {
			return err
		}
	}

	rows := t.Strings()
	width := 0
	for _, h := range t.Headers[:min(1, len(t.Headers))] {
		width = max(width, utf8.RuneCountInString(h))
	}
	for _, row := range rows {
		if len(row) > 0 {
			width = max(width, utf8.RuneCountInString(truncate(row[0], labelWidth)))
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	writeLine := func(cells []string) error {
		var b strings.Builder
		for i, c := range cells {
			if i == 0 {
				c = pad(truncate(c, labelWidth), width)
			}
			b.WriteString(c)
			b.WriteByte('\t')
		}
		b.WriteByte('\n')
		_, err := io.WriteString(tw, b.String())
		return err
	}

	if err := writeLine(t.Headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeLine(row); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func pad(s string, n int) string {
	if gap := n - utf8.RuneCountInString(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
