package series

import "sort"

type Join string

const (
	// Inner conserva solo los buckets presentes en todas las series (correlación).
	Inner Join = "inner"
	// OuterZeroFill conserva la unión y rellena con 0 (totales y gráficos).
	OuterZeroFill Join = "outer"
)

type Named struct {
	Name   string
	Points []Point
}

type Row struct {
	Bucket  Bucket    `json:"bucket"`
	Label   string    `json:"label,omitempty"`
	Values  []float64 `json:"values"`
	Present []bool    `json:"present"`
}

func (r Row) Total() float64 {
	t := 0.0
	for _, v := range r.Values {
		t += v
	}
	return t
}

type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

func Align(join Join, in ...Named) Table {
	t := Table{Columns: make([]string, len(in)), Rows: []Row{}}
	byBucket := make(map[Bucket]*Row)
	for i, s := range in {
		t.Columns[i] = s.Name
		for _, p := range s.Points {
			r, ok := byBucket[p.Bucket]
			if !ok {
				r = &Row{Bucket: p.Bucket, Values: make([]float64, len(in)), Present: make([]bool, len(in))}
				if p.Bucket.IsMonth() {
					r.Label = MonthLabel(p.Bucket.Month)
				}
				byBucket[p.Bucket] = r
			}
			r.Values[i] += p.Value
			r.Present[i] = true
		}
	}
	for _, r := range byBucket {
		if join == Inner && !all(r.Present) {
			continue
		}
		t.Rows = append(t.Rows, *r)
	}
	sort.Slice(t.Rows, func(i, j int) bool { return t.Rows[i].Bucket.Before(t.Rows[j].Bucket) })
	return t
}

func all(bs []bool) bool {
	for _, b := range bs {
		if !b {
			return false
		}
	}
	return len(bs) > 0
}

func (t Table) Column(name string) ([]float64, bool) {
	for i, c := range t.Columns {
		if c != name {
			continue
		}
		out := make([]float64, len(t.Rows))
		for j, r := range t.Rows {
			out[j] = r.Values[i]
		}
		return out, true
	}
	return nil, false
}
