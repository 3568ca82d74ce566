package crime

// Default daytime window, inclusive on both ends.
const (
	DefaultHourStart = 9
	DefaultHourEnd   = 18
)

// Stage is one named predicate step of the filter chain. Apply must return an
// order-preserving subset of its input and must not modify any record.
type Stage struct {
	Name  string
	Apply func([]Record) []Record
}

// StageCount records how many rows survived a stage.
type StageCount struct {
	Stage string `json:"stage"`
	Rows  int    `json:"rows"`
}

// Params configures the standard filter chain.
type Params struct {
	Include IncludeSet
	// ExpandTierOffenses promotes every offense group observed under a core
	// tier (after incomplete rows are dropped) before the include stage runs.
	ExpandTierOffenses bool
	HourStart          int
	HourEnd            int
}

// Result is the output of Filter.
type Result struct {
	Records []Record
	// Year is the most-recent-year cutoff, 0 when nothing reached that stage.
	Year    int
	Include IncludeSet
	Input   int
	Stages  []StageCount
}

// keep returns the records matching pred, preserving order.
func keep(records []Record, pred func(Record) bool) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// DropIncomplete removes records missing latitude, longitude or district.
func DropIncomplete() Stage {
	return Stage{
		Name:  "located",
		Apply: func(records []Record) []Record { return keep(records, Record.HasLocation) },
	}
}

// KeepIncluded keeps records that belong to the include set.
func KeepIncluded(include IncludeSet) Stage {
	return Stage{
		Name:  "included",
		Apply: func(records []Record) []Record { return keep(records, include.Contains) },
	}
}

// MaxYear returns the largest year in records, or 0 for an empty set.
func MaxYear(records []Record) int {
	year := 0
	for i, r := range records {
		if i == 0 || r.Year > year {
			year = r.Year
		}
	}
	return year
}

// KeepMostRecentYear keeps records from the latest year present in its own
// input. The cutoff is therefore relative to whatever earlier stages left.
func KeepMostRecentYear() Stage {
	return Stage{
		Name: "recent",
		Apply: func(records []Record) []Record {
			year := MaxYear(records)
			return keep(records, func(r Record) bool { return r.Year == year })
		},
	}
}

// KeepHours keeps records whose hour lies in [start, end].
func KeepHours(start, end int) Stage {
	return Stage{
		Name: "daytime",
		Apply: func(records []Record) []Record {
			return keep(records, func(r Record) bool { return r.Hour >= start && r.Hour <= end })
		},
	}
}

// Chain applies stages left to right and returns the final records together
// with the row count after each stage.
func Chain(records []Record, stages ...Stage) ([]Record, []StageCount) {
	counts := make([]StageCount, 0, len(stages))
	for _, s := range stages {
		records = s.Apply(records)
		counts = append(counts, StageCount{Stage: s.Name, Rows: len(records)})
	}
	return records, counts
}

// Filter runs the standard chain: drop incomplete rows, keep the include set,
// keep the most recent year, keep the daytime window.
//
// With ExpandTierOffenses set, the include set is derived from the input, so
// filtering the output again with the same Params can drop more rows. Re-running
// with Result.Include and expansion off is idempotent.
func Filter(records []Record, p Params) Result {
	located, counts := Chain(records, DropIncomplete())

	include := p.Include
	if p.ExpandTierOffenses {
		include = include.ExpandTierOffenses(located)
	}

	included, more := Chain(located, KeepIncluded(include))
	counts = append(counts, more...)
	year := MaxYear(included)

	out, more := Chain(included, KeepMostRecentYear(), KeepHours(p.HourStart, p.HourEnd))
	counts = append(counts, more...)

	return Result{
		Records: out,
		Year:    year,
		Include: include,
		Input:   len(records),
		Stages:  counts,
	}
}
