package crime

import (
	"sort"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat"
)

// AreaCount is the number of incidents recorded in one district.
type AreaCount struct {
	District string `json:"district"`
	Count    int    `json:"count"`
}

// CountByArea groups records by district and counts them. The result is
// ordered by count descending, then district code.
func CountByArea(records []Record) ([]AreaCount, error) {
	if len(records) == 0 {
		return nil, eris.Wrap(ErrNoData, "crime: count by area")
	}

	byDistrict := make(map[string]int)
	for _, r := range records {
		byDistrict[r.District]++
	}

	counts := make([]AreaCount, 0, len(byDistrict))
	for d, n := range byDistrict {
		counts = append(counts, AreaCount{District: d, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].District < counts[j].District
	})
	return counts, nil
}

// Centroid returns the mean latitude and longitude of located records.
func Centroid(records []Record) (lat, long float64, err error) {
	lats := make([]float64, 0, len(records))
	longs := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Lat == nil || r.Long == nil {
			continue
		}
		lats = append(lats, *r.Lat)
		longs = append(longs, *r.Long)
	}
	if len(lats) == 0 {
		return 0, 0, eris.Wrap(ErrNoData, "crime: centroid")
	}
	return stat.Mean(lats, nil), stat.Mean(longs, nil), nil
}

// SplitWeekend partitions records into weekend and weekday incidents.
func SplitWeekend(records []Record) (weekend, weekday []Record) {
	for _, r := range records {
		if r.IsWeekend() {
			weekend = append(weekend, r)
		} else {
			weekday = append(weekday, r)
		}
	}
	return weekend, weekday
}

// Keyed is implemented by boundary geometries identified by a district code.
type Keyed interface {
	Key() string
}

// Joined pairs a boundary with the incident count for its district.
type Joined[B Keyed] struct {
	Boundary B
	Count    int
}

// JoinBoundaries joins district counts with boundaries on district code. Both
// key sets must be identical: any district present on only one side yields a
// *MismatchError and no partial result. Output follows the order of counts.
func JoinBoundaries[B Keyed](counts []AreaCount, boundaries []B) ([]Joined[B], error) {
	byKey := make(map[string]B, len(boundaries))
	for _, b := range boundaries {
		if _, dup := byKey[b.Key()]; dup {
			return nil, eris.Errorf("crime: duplicate boundary for district %q", b.Key())
		}
		byKey[b.Key()] = b
	}

	seen := make(map[string]struct{}, len(counts))
	mismatch := &MismatchError{}
	for _, c := range counts {
		seen[c.District] = struct{}{}
		if _, ok := byKey[c.District]; !ok {
			mismatch.MissingBoundaries = append(mismatch.MissingBoundaries, c.District)
		}
	}
	for key := range byKey {
		if _, ok := seen[key]; !ok {
			mismatch.MissingRecords = append(mismatch.MissingRecords, key)
		}
	}
	if len(mismatch.MissingBoundaries) > 0 || len(mismatch.MissingRecords) > 0 {
		sort.Strings(mismatch.MissingBoundaries)
		sort.Strings(mismatch.MissingRecords)
		return nil, mismatch
	}

	joined := make([]Joined[B], 0, len(counts))
	for _, c := range counts {
		joined = append(joined, Joined[B]{Boundary: byKey[c.District], Count: c.Count})
	}
	return joined, nil
}
