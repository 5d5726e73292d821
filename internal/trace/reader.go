package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Column names recognized in the trace CSV header. Columns this core does
// not read (Line, Return Value, Return Type, Exception Type, Exception
// Message, Thread ID) may still be present; they are simply never looked up.
const (
	colDepth          = "Depth"
	colFunctionType   = "Function Type"
	colTestingMethod  = "Testing Method"
	colFunctionName   = "Function Name"
	colFQFunctionName = "Fully Qualified Function Name"
	colClassName      = "Class Name"
	colFQClassName    = "Fully Qualified Class Name"
	colEventType      = "Event Type"
)

// Read parses a trace CSV from r into a slice of Records. Malformed rows
// (a CSV syntax error, or a missing, unparsable or negative Depth) are
// skipped rather than aborting the read, per spec §4.1's failure semantics;
// skipped is the count of rows dropped this way. A row with fewer fields
// than the header is kept, with its absent columns left empty.
//
// encoding/csv has no small default per-field size cap (unlike some other
// ecosystems' CSV readers), so arbitrarily large Return Value / stack
// message fields are read without special handling.
func Read(r io.Reader) (records []Record, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows instead of failing the whole read
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, 0, fmt.Errorf("trace CSV has no header row")
	}
	if err != nil {
		return nil, 0, fmt.Errorf("reading trace CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	get := func(row []string, name string) (string, bool) {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return "", false
		}
		return row[idx], true
	}

	for {
		row, readErr := cr.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			// A single malformed line (bad quoting, etc.) is skipped, not fatal.
			skipped++
			continue
		}

		rec, ok := parseRow(row, get)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

func parseRow(row []string, get func([]string, string) (string, bool)) (Record, bool) {
	depthStr, ok := get(row, colDepth)
	if !ok {
		return Record{}, false
	}
	depth, err := strconv.Atoi(depthStr)
	if err != nil || depth < 0 {
		return Record{}, false
	}

	rec := Record{Depth: depth}

	if v, ok := get(row, colFunctionType); ok {
		rec.FunctionType = FunctionType(v)
	}
	if v, ok := get(row, colTestingMethod); ok {
		rec.TestingMethod = TestingMethod(v)
	}
	if v, ok := get(row, colEventType); ok {
		rec.EventType = EventType(v)
	}
	if v, ok := get(row, colFunctionName); ok {
		rec.FunctionName = v
	}
	if v, ok := get(row, colFQFunctionName); ok {
		rec.FullyQualifiedFunctionName = v
	}
	if v, ok := get(row, colClassName); ok {
		rec.ClassName = v
	}
	if v, ok := get(row, colFQClassName); ok {
		rec.FullyQualifiedClassName = v
	}

	return rec, true
}
