package crime

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/crimemap/internal/fetcher"
)

// Column names in the incident CSV.
const (
	ColIncident   = "INCIDENT_NUMBER"
	ColOffense    = "OFFENSE_CODE_GROUP"
	ColDistrict   = "DISTRICT"
	ColYear       = "YEAR"
	ColMonth      = "MONTH"
	ColHour       = "HOUR"
	ColDayOfWeek  = "DAY_OF_WEEK"
	ColUCRPart    = "UCR_PART"
	ColStreet     = "STREET"
	ColOccurredOn = "OCCURRED_ON_DATE"
	ColLat        = "Lat"
	ColLong       = "Long"
)

var requiredColumns = []string{
	ColIncident, ColOffense, ColDistrict, ColYear, ColHour,
	ColDayOfWeek, ColUCRPart, ColLat, ColLong,
}

// DecodeOptions configures CSV decoding.
type DecodeOptions struct {
	// Encoding is the source charset, e.g. "latin-1". Empty means UTF-8.
	Encoding string
	// PlaceholderAsMissing treats the dataset's (-1, -1) coordinate
	// placeholder as absent.
	PlaceholderAsMissing bool
}

// ReadCSVFile opens path and decodes it with ReadCSV.
func ReadCSVFile(ctx context.Context, path string, opts DecodeOptions) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "crime: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ReadCSV(ctx, f, opts)
}

// ReadCSV decodes incident records from a delimited stream with a header row.
// Columns are matched by name, case-insensitively; unknown columns are ignored.
func ReadCSV(ctx context.Context, r io.Reader, opts DecodeOptions) ([]Record, error) {
	rowCh, errCh := fetcher.StreamCSV(ctx, r, fetcher.CSVOptions{
		Encoding:   opts.Encoding,
		LazyQuotes: true,
		TrimSpace:  true,
	})

	var (
		cols    columnIndex
		records []Record
		line    int
		decErr  error
	)
	for row := range rowCh {
		line++
		if decErr != nil {
			continue
		}
		if line == 1 {
			cols, decErr = newColumnIndex(row)
			continue
		}
		rec, err := cols.decode(row, opts)
		if err != nil {
			decErr = eris.Wrapf(err, "crime: row %d", line)
			continue
		}
		records = append(records, rec)
	}
	if err := <-errCh; err != nil {
		return nil, eris.Wrap(err, "crime: read csv")
	}
	if decErr != nil {
		return nil, decErr
	}
	if line == 0 {
		return nil, eris.New("crime: csv has no header row")
	}

	zap.L().Debug("crime: decoded records", zap.Int("rows", len(records)))
	return records, nil
}

type columnIndex map[string]int

func newColumnIndex(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		idx[strings.ToUpper(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := idx[strings.ToUpper(c)]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("crime: missing columns %s", strings.Join(missing, ","))
	}
	return idx, nil
}

func (c columnIndex) get(row []string, col string) string {
	i, ok := c[strings.ToUpper(col)]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (c columnIndex) decode(row []string, opts DecodeOptions) (Record, error) {
	rec := Record{
		ID:           c.get(row, ColIncident),
		OffenseGroup: c.get(row, ColOffense),
		District:     c.get(row, ColDistrict),
		UCRPart:      c.get(row, ColUCRPart),
		DayOfWeek:    c.get(row, ColDayOfWeek),
		Street:       c.get(row, ColStreet),
		OccurredOn:   c.get(row, ColOccurredOn),
	}

	var err error
	if rec.Year, err = parseInt(c.get(row, ColYear), ColYear); err != nil {
		return Record{}, err
	}
	if rec.Hour, err = parseInt(c.get(row, ColHour), ColHour); err != nil {
		return Record{}, err
	}
	if rec.Hour < 0 || rec.Hour > 23 {
		return Record{}, eris.Errorf("%s %d out of range", ColHour, rec.Hour)
	}
	if m := c.get(row, ColMonth); m != "" {
		if rec.Month, err = parseInt(m, ColMonth); err != nil {
			return Record{}, err
		}
	}
	if rec.Lat, err = parseCoord(c.get(row, ColLat), ColLat); err != nil {
		return Record{}, err
	}
	if rec.Long, err = parseCoord(c.get(row, ColLong), ColLong); err != nil {
		return Record{}, err
	}
	if opts.PlaceholderAsMissing && rec.Lat != nil && rec.Long != nil && *rec.Lat == -1 && *rec.Long == -1 {
		rec.Lat, rec.Long = nil, nil
	}
	return rec, nil
}

func parseInt(s, col string) (int, error) {
	// Some exports write integer columns as floats ("2018.0").
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, eris.Errorf("invalid %s %q", col, s)
	}
	return int(f), nil
}

func parseCoord(s, col string) (*float64, error) {
	if s == "" || strings.EqualFold(s, "nan") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid %s %q", col, s)
	}
	return &v, nil
}
