package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const resultSeparator = "----"

// Parse reads and parses the script file at path
func Parse(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	defer f.Close()
	return ParseReader(path, f)
}

// ParseReader parses a script from r, name is used in error messages
func ParseReader(name string, r io.Reader) ([]Record, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}
	return ParseBytes(name, content)
}

// ParseBytes parses script content
func ParseBytes(name string, content []byte) ([]Record, error) {
	p := &scriptParser{name: name, lines: splitLines(content)}
	return p.parse()
}

type scriptParser struct {
	name    string
	lines   []string
	pos     int
	records []Record
}

func splitLines(content []byte) []string {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if len(content) == 0 {
		return nil
	}
	lines := strings.Split(string(content), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (p *scriptParser) errorf(line int, format string, args ...any) error {
	return fmt.Errorf("%s:%d: %s", p.name, line, fmt.Sprintf(format, args...))
}

func (p *scriptParser) parse() ([]Record, error) {
	var conditions []Condition
	condLine := 0

	for p.pos < len(p.lines) {
		lineNo := p.pos + 1
		raw := p.lines[p.pos]
		trimmed := strings.TrimSpace(raw)

		if len(conditions) > 0 && (trimmed == "" || strings.HasPrefix(trimmed, "#")) {
			return nil, p.errorf(condLine, "condition must be followed by a statement or query")
		}

		if trimmed == "" {
			p.records = append(p.records, Record{Kind: KindNewline, Line: lineNo})
			p.pos++
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			p.records = append(p.records, Record{Kind: KindComment, Line: lineNo, Text: raw})
			p.pos++
			continue
		}

		fields := strings.Fields(trimmed)
		switch fields[0] {
		case "skipif", "onlyif":
			if len(fields) != 2 {
				return nil, p.errorf(lineNo, "expected a single label after %s", fields[0])
			}
			kind := SkipIf
			if fields[0] == "onlyif" {
				kind = OnlyIf
			}
			if len(conditions) == 0 {
				condLine = lineNo
			}
			conditions = append(conditions, Condition{Kind: kind, Label: fields[1]})
			p.pos++
			continue

		case "statement":
			rec, err := p.parseStatement(lineNo, trimmed, fields)
			if err != nil {
				return nil, err
			}
			rec.Conditions = conditions
			conditions = nil
			p.records = append(p.records, rec)
			continue

		case "query":
			rec, err := p.parseQuery(lineNo, trimmed, fields)
			if err != nil {
				return nil, err
			}
			rec.Conditions = conditions
			conditions = nil
			p.records = append(p.records, rec)
			continue
		}

		if len(conditions) > 0 {
			return nil, p.errorf(condLine, "condition must be followed by a statement or query")
		}

		switch fields[0] {
		case "halt":
			p.records = append(p.records, Record{Kind: KindHalt, Line: lineNo})
		case "hash-threshold":
			if len(fields) != 2 {
				return nil, p.errorf(lineNo, "expected a threshold after hash-threshold")
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 0 {
				return nil, p.errorf(lineNo, "invalid hash threshold %q", fields[1])
			}
			p.records = append(p.records, Record{Kind: KindHashThreshold, Line: lineNo, Threshold: n})
		case "control":
			if len(fields) != 3 || fields[1] != "sortmode" {
				return nil, p.errorf(lineNo, "unsupported control directive %q", trimmed)
			}
			mode, ok := ParseSortMode(fields[2])
			if !ok {
				return nil, p.errorf(lineNo, "invalid sort mode %q", fields[2])
			}
			p.records = append(p.records, Record{Kind: KindSortMode, Line: lineNo, SortMode: mode})
		default:
			return nil, p.errorf(lineNo, "unknown directive %q", fields[0])
		}
		p.pos++
	}

	if len(conditions) > 0 {
		return nil, p.errorf(condLine, "condition must be followed by a statement or query")
	}
	return p.records, nil
}

// rest returns what follows the first n whitespace separated words of line
func rest(line string, n int) string {
	s := strings.TrimSpace(line)
	for i := 0; i < n; i++ {
		idx := strings.IndexAny(s, " \t")
		if idx < 0 {
			return ""
		}
		s = strings.TrimSpace(s[idx:])
	}
	return s
}

func (p *scriptParser) parseStatement(lineNo int, header string, fields []string) (Record, error) {
	rec := Record{Kind: KindStatement, Line: lineNo}
	if len(fields) < 2 {
		return rec, p.errorf(lineNo, "expected ok, error or count after statement")
	}

	switch fields[1] {
	case "ok":
		if len(fields) != 2 {
			return rec, p.errorf(lineNo, "unexpected tokens after statement ok")
		}
	case "error":
		rec.ExpectError = true
		rec.ErrorPattern = rest(header, 2)
	case "count":
		if len(fields) != 3 {
			return rec, p.errorf(lineNo, "expected a row count after statement count")
		}
		n, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return rec, p.errorf(lineNo, "invalid row count %q", fields[2])
		}
		rec.ExpectCount = true
		rec.Count = n
	default:
		return rec, p.errorf(lineNo, "unknown statement expectation %q", fields[1])
	}

	p.pos++
	sql, sep := p.readSQL()
	if sep {
		return rec, p.errorf(lineNo, "multi-line expected errors are not supported")
	}
	if sql == "" {
		return rec, p.errorf(lineNo, "statement without SQL")
	}
	rec.SQL = sql
	return rec, nil
}

func (p *scriptParser) parseQuery(lineNo int, header string, fields []string) (Record, error) {
	rec := Record{Kind: KindQuery, Line: lineNo}
	if len(fields) < 2 {
		return rec, p.errorf(lineNo, "expected column types or error after query")
	}

	if fields[1] == "error" {
		rec.ExpectError = true
		rec.ErrorPattern = rest(header, 2)
	} else {
		rec.Types = fields[1]
		if len(fields) > 4 {
			return rec, p.errorf(lineNo, "too many tokens in query header")
		}
		for _, tok := range fields[2:] {
			if mode, ok := ParseSortMode(tok); ok && rec.SortMode == SortDefault && rec.Label == "" {
				rec.SortMode = mode
				continue
			}
			if rec.Label != "" {
				return rec, p.errorf(lineNo, "unexpected token %q in query header", tok)
			}
			rec.Label = tok
		}
	}

	p.pos++
	sql, sep := p.readSQL()
	if sql == "" {
		return rec, p.errorf(lineNo, "query without SQL")
	}
	rec.SQL = sql

	if sep {
		if rec.ExpectError {
			return rec, p.errorf(lineNo, "multi-line expected errors are not supported")
		}
		rec.Results = p.readResults()
	}
	return rec, nil
}

// readSQL consumes lines up to a blank line, EOF or the result separator.
// It reports whether the separator was consumed.
func (p *scriptParser) readSQL() (string, bool) {
	var sql []string
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			break
		}
		if trimmed == resultSeparator {
			p.pos++
			return strings.Join(sql, "\n"), true
		}
		sql = append(sql, line)
		p.pos++
	}
	return strings.Join(sql, "\n"), false
}

func (p *scriptParser) readResults() []string {
	results := []string{}
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if strings.TrimSpace(line) == "" {
			break
		}
		results = append(results, line)
		p.pos++
	}
	return results
}
