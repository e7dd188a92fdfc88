// Package codec reads and writes ledger rows as comma delimited text lines.
package codec

import (
	"strings"
	"time"
)

const (
	Delimiter = ','
	quote     = '"'
)

// TimeLayout is the fixed width ISO-8601 form used for every timestamp column.
// Lexical order of formatted values matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t in UTC using TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// EncodeRow joins fields into one line terminated by "\n".
// A field holding the delimiter, a quote or a line break is quoted and its quotes doubled.
func EncodeRow(fields []string) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(Delimiter)
		}
		b.WriteString(escape(f))
	}
	b.WriteByte('\n')
	return b.String()
}

func escape(field string) string {
	if !strings.ContainsAny(field, ",\"\n\r") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// DecodeRow splits one encoded line back into its fields.
// It never fails: an unbalanced quote swallows the rest of the line.
func DecodeRow(line string) []string {
	line = trimTerminator(line)

	var (
		out      []string
		cur      strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if inQuotes {
			switch {
			case ch == quote && i+1 < len(line) && line[i+1] == quote:
				cur.WriteByte(quote)
				i++
			case ch == quote:
				inQuotes = false
			default:
				cur.WriteByte(ch)
			}
			continue
		}

		switch ch {
		case quote:
			inQuotes = true
		case Delimiter:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	return append(out, cur.String())
}

// SplitRecords cuts file content into encoded rows. Line breaks inside quoted
// fields stay part of their row; blank rows are dropped.
func SplitRecords(data string) []string {
	var (
		out      []string
		start    int
		inQuotes bool
	)
	flush := func(end int) {
		rec := strings.TrimSuffix(data[start:end], "\r")
		if rec != "" {
			out = append(out, rec)
		}
	}
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case quote:
			inQuotes = !inQuotes
		case '\n':
			if !inQuotes {
				flush(i)
				start = i + 1
			}
		}
	}
	if start < len(data) {
		flush(len(data))
	}
	return out
}

func trimTerminator(line string) string {
	if strings.HasSuffix(line, "\r\n") {
		return line[:len(line)-2]
	}
	return strings.TrimSuffix(line, "\n")
}
