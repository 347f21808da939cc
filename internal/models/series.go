package models

import "fmt"

// ProjectionYears is the fixed year axis of every economic series.
var ProjectionYears = []int{2024, 2025, 2026, 2027, 2028, 2029}

// Series is one metric over ProjectionYears.
type Series struct {
	Label  string
	Years  []int
	Values []float64
	// Missing marks years whose field is present but null or not a number.
	// Absent fields are plain zeros.
	Missing []bool
}

// SeriesFromRecord reads <prefix>Year1..Year6 off a record. Absent fields
// read as 0; null or non-numeric values also read as 0 but are flagged in
// Missing.
func SeriesFromRecord(r Record, label, prefix string) Series {
	s := Series{
		Label:   label,
		Years:   append([]int(nil), ProjectionYears...),
		Values:  make([]float64, len(ProjectionYears)),
		Missing: make([]bool, len(ProjectionYears)),
	}
	for i := range ProjectionYears {
		field := fmt.Sprintf("%sYear%d", prefix, i+1)
		s.Values[i] = r.Number(field, 0)
		if v, ok := r[field]; ok {
			_, numeric := AsNumber(v)
			s.Missing[i] = !numeric
		}
	}
	return s
}
