package crime

import "sort"

// DefaultPromotedOffenses are offense groups outside Part One that still
// count as violent.
var DefaultPromotedOffenses = []string{
	"Simple Assault",
	"Harassment",
	"Ballistics",
	"Arson",
	"HOME INVASION",
	"Criminal Harassment",
	"Manslaughter",
}

// IncludeSet decides which records belong to the "violent" bucket: every
// record whose UCR part is a core tier, plus every record whose offense group
// has been promoted.
type IncludeSet struct {
	tiers    map[string]struct{}
	promoted map[string]struct{}
}

// NewIncludeSet builds an include set from core tiers and promoted offense groups.
func NewIncludeSet(tiers, promoted []string) IncludeSet {
	s := IncludeSet{
		tiers:    make(map[string]struct{}, len(tiers)),
		promoted: make(map[string]struct{}, len(promoted)),
	}
	for _, t := range tiers {
		s.tiers[t] = struct{}{}
	}
	for _, o := range promoted {
		s.promoted[o] = struct{}{}
	}
	return s
}

// Contains reports whether the record is in the include set.
func (s IncludeSet) Contains(r Record) bool {
	if _, ok := s.tiers[r.UCRPart]; ok {
		return true
	}
	_, ok := s.promoted[r.OffenseGroup]
	return ok
}

// ExpandTierOffenses returns a copy of the set in which every offense group
// seen under a core tier in records is promoted as well. Membership then no
// longer depends on how an individual incident was tiered, only on its
// offense group.
func (s IncludeSet) ExpandTierOffenses(records []Record) IncludeSet {
	out := NewIncludeSet(s.Tiers(), s.Promoted())
	for _, r := range records {
		if _, ok := s.tiers[r.UCRPart]; ok && r.OffenseGroup != "" {
			out.promoted[r.OffenseGroup] = struct{}{}
		}
	}
	return out
}

// Tiers returns the core tiers in sorted order.
func (s IncludeSet) Tiers() []string { return sortedKeys(s.tiers) }

// Promoted returns the promoted offense groups in sorted order.
func (s IncludeSet) Promoted() []string { return sortedKeys(s.promoted) }

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
