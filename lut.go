package rdke

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Point is one (key, value) entry of a lookup table.
type Point struct {
	X, Y float64
}

// LookupTable is a piecewise linear function over strictly ascending keys.
// Lookups outside the key range return the boundary value.
type LookupTable struct {
	pts []Point
}

// NewLookupTable returns a table from the provided points which must be in strictly ascending X.
func NewLookupTable(pts []Point) (*LookupTable, error) {
	if len(pts) == 0 {
		return nil, fmt.Errorf("%w: no points", ErrTableFormat)
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].X <= pts[i-1].X {
			return nil, fmt.Errorf("%w: row %d key %g after %g", ErrTableOrder, i, pts[i].X, pts[i-1].X)
		}
	}
	cp := make([]Point, len(pts))
	copy(cp, pts)
	return &LookupTable{pts: cp}, nil
}

// Len returns the number of points.
func (t *LookupTable) Len() int {
	return len(t.pts)
}

// Bounds returns the smallest and largest key.
func (t *LookupTable) Bounds() (min, max float64) {
	return t.pts[0].X, t.pts[len(t.pts)-1].X
}

// Value returns the interpolated value at x.
func (t *LookupTable) Value(x float64) float64 {
	n := len(t.pts)
	if x <= t.pts[0].X {
		return t.pts[0].Y
	}
	if x >= t.pts[n-1].X {
		return t.pts[n-1].Y
	}
	// First point strictly above x; never 0 or n here.
	i := sort.Search(n, func(i int) bool { return t.pts[i].X > x })
	lo, hi := t.pts[i-1], t.pts[i]
	return lerp(x, lo.X, lo.Y, hi.X, hi.Y)
}

// LoadLookupTable reads a CSV table with one header row.
// keyCol and valueCol select the columns used for X and Y.
func LoadLookupTable(r io.Reader, keyCol, valueCol int) (*LookupTable, error) {
	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = -1
	rdr.TrimLeadingSpace = true
	rdr.Comment = '#'
	records, err := rdr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTableFormat, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: header and at least one row required", ErrTableFormat)
	}
	need := keyCol
	if valueCol > need {
		need = valueCol
	}
	pts := make([]Point, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) <= need {
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrTableFormat, i+1, len(rec))
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(rec[keyCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrTableFormat, i+1, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(rec[valueCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrTableFormat, i+1, err)
		}
		pts = append(pts, Point{X: x, Y: y})
	}
	return NewLookupTable(pts)
}

// LoadLookupTableFile opens the CSV at path and loads it with LoadLookupTable.
func LoadLookupTableFile(path string, keyCol, valueCol int) (*LookupTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tbl, err := LoadLookupTable(f, keyCol, valueCol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tbl, nil
}
