// Package crime loads incident records, narrows them with an ordered chain of
// row predicates, and aggregates the survivors per police district.
package crime

// UCR (Uniform Crime Reporting) parts used in the severity column.
const (
	PartOne   = "Part One"
	PartTwo   = "Part Two"
	PartThree = "Part Three"
	PartOther = "Other"
)

// Record is one reported incident.
type Record struct {
	ID           string   `json:"incident_number"`
	OffenseGroup string   `json:"offense_code_group"`
	District     string   `json:"district,omitempty"`
	UCRPart      string   `json:"ucr_part"`
	Year         int      `json:"year"`
	Month        int      `json:"month"`
	Hour         int      `json:"hour"`
	DayOfWeek    string   `json:"day_of_week"`
	Street       string   `json:"street,omitempty"`
	OccurredOn   string   `json:"occurred_on_date,omitempty"`
	Lat          *float64 `json:"lat,omitempty"`
	Long         *float64 `json:"long,omitempty"`
}

// HasLocation reports whether the record carries coordinates and a district.
func (r Record) HasLocation() bool {
	return r.Lat != nil && r.Long != nil && r.District != ""
}

// IsWeekend reports whether the incident happened on a Saturday or Sunday.
func (r Record) IsWeekend() bool {
	return r.DayOfWeek == "Saturday" || r.DayOfWeek == "Sunday"
}

// Point returns the incident's coordinates. It must only be called on records
// for which HasLocation is true.
func (r Record) Point() (lat, long float64) {
	return *r.Lat, *r.Long
}
