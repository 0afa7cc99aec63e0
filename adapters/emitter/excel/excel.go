// Package excel writes a generated document stream to a flattened .xlsx
// workbook for human QA review, alongside the NDJSON/JSON-array emitters
// spec §6 requires (SPEC_FULL.md supplement: alternate emitter). Grounded
// on the teacher's internal/adforensics report-writing idiom
// (excelize.NewFile + per-column SetCellValue + SaveAs).
package excel

import (
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"docsynth/domain/document"
)

const sheetName = "documents"

// Writer accumulates flattened document rows and writes them to path on
// Close. Columns are every distinct dotted leaf path seen across all
// documents written so far, sorted for a stable column order.
type Writer struct {
	path    string
	rows    []map[string]string
	columns map[string]struct{}
}

// NewWriter creates an excel Writer that will save to path on Close.
func NewWriter(path string) *Writer {
	return &Writer{path: path, columns: make(map[string]struct{})}
}

// Write flattens doc into one row, keyed by dotted leaf path.
func (w *Writer) Write(doc document.Document) error {
	row := make(map[string]string)
	flatten("", doc, row)
	for k := range row {
		w.columns[k] = struct{}{}
	}
	w.rows = append(w.rows, row)
	return nil
}

// Close renders the accumulated rows to an .xlsx workbook and saves it.
func (w *Writer) Close() error {
	f := excelize.NewFile()
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}
	f.SetActiveSheet(0)
	_ = f.DeleteSheet("Sheet1")

	columns := make([]string, 0, len(w.columns))
	for c := range w.columns {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return err
		}
	}

	for r, row := range w.rows {
		for i, col := range columns {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if v, ok := row[col]; ok {
				if err := f.SetCellValue(sheetName, cell, v); err != nil {
					return err
				}
			}
		}
	}

	return f.SaveAs(w.path)
}

// flatten walks doc, writing one entry per scalar leaf into out keyed by
// its dotted path (arrays are joined positionally as path.N).
func flatten(path string, v document.Document, out map[string]string) {
	switch v.Kind {
	case document.KindObject:
		for k, child := range v.Object {
			childPath := k
			if path != "" {
				childPath = path + "." + k
			}
			flatten(childPath, child, out)
		}
	case document.KindArray:
		for i, item := range v.Array {
			flatten(indexPath(path, i), item, out)
		}
	default:
		out[path] = scalarString(v)
	}
}

func indexPath(path string, i int) string {
	if path == "" {
		return itoa(i)
	}
	return path + "." + itoa(i)
}

func scalarString(v document.Document) string {
	switch v.Kind {
	case document.KindNull:
		return ""
	case document.KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case document.KindInt:
		return itoa64(v.Int)
	case document.KindFloat:
		return ftoa(v.Float)
	case document.KindString:
		return v.Str
	case document.KindObjectID:
		return v.OID.Hex()
	case document.KindDecimal:
		return v.Decimal
	case document.KindBinary:
		return string(v.Binary)
	case document.KindTimestamp:
		return time.Time(v.Timestamp).UTC().Format(time.RFC3339)
	default:
		return ""
	}
}
