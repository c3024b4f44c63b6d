package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Write serializes records back into script text
func Write(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for i := range records {
		writeRecord(bw, &records[i])
	}
	return bw.Flush()
}

// Format returns the script text for records
func Format(records []Record) string {
	var b strings.Builder
	_ = Write(&b, records)
	return b.String()
}

func writeRecord(w *bufio.Writer, rec *Record) {
	switch rec.Kind {
	case KindNewline:
		w.WriteString("\n")
	case KindComment:
		w.WriteString(rec.Text + "\n")
	case KindHalt:
		w.WriteString("halt\n")
	case KindHashThreshold:
		fmt.Fprintf(w, "hash-threshold %d\n", rec.Threshold)
	case KindSortMode:
		fmt.Fprintf(w, "control sortmode %s\n", rec.SortMode)
	case KindStatement:
		writeConditions(w, rec)
		w.WriteString(statementHeader(rec) + "\n")
		w.WriteString(rec.SQL + "\n")
	case KindQuery:
		writeConditions(w, rec)
		w.WriteString(queryHeader(rec) + "\n")
		w.WriteString(rec.SQL + "\n")
		if !rec.ExpectError {
			w.WriteString(resultSeparator + "\n")
			for _, line := range rec.Results {
				w.WriteString(line + "\n")
			}
		}
	}
}

func writeConditions(w *bufio.Writer, rec *Record) {
	for _, c := range rec.Conditions {
		w.WriteString(c.String() + "\n")
	}
}

func statementHeader(rec *Record) string {
	switch {
	case rec.ExpectError:
		return strings.TrimSpace("statement error " + rec.ErrorPattern)
	case rec.ExpectCount:
		return fmt.Sprintf("statement count %d", rec.Count)
	default:
		return "statement ok"
	}
}

func queryHeader(rec *Record) string {
	if rec.ExpectError {
		return strings.TrimSpace("query error " + rec.ErrorPattern)
	}
	parts := []string{"query", rec.Types}
	if rec.SortMode != SortDefault {
		parts = append(parts, rec.SortMode.String())
	}
	if rec.Label != "" {
		parts = append(parts, rec.Label)
	}
	return strings.Join(parts, " ")
}
