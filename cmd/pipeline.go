package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/crimemap/internal/boundary"
	"github.com/sells-group/crimemap/internal/config"
	"github.com/sells-group/crimemap/internal/crime"
	"github.com/sells-group/crimemap/internal/fetcher"
)

// dataset describes where the course data lives and how to obtain it.
func dataset(c config.DataConfig) fetcher.Dataset {
	return fetcher.Dataset{
		Dir:        c.DataDir(),
		Archive:    c.ArchivePath(),
		ArchiveURL: c.ArchiveURL,
		Entries:    c.ArchiveEntries,
	}
}

// prepareData extracts (and downloads, when a URL is configured) the dataset
// if its directory is missing.
func prepareData(ctx context.Context, c config.DataConfig) error {
	var f fetcher.Fetcher
	if c.ArchiveURL != "" {
		f = fetcher.NewHTTPFetcher(fetcher.HTTPOptions{})
	}
	extracted, err := dataset(c).Prepare(ctx, f)
	if err != nil {
		return err
	}
	if extracted {
		zap.L().Info("dataset ready", zap.String("dir", c.DataDir()))
	}
	return nil
}

// filterParams builds the filter chain parameters from configuration.
func filterParams(c config.FilterConfig) crime.Params {
	return crime.Params{
		Include:            crime.NewIncludeSet(c.IncludeTiers, c.PromotedOffenses),
		ExpandTierOffenses: c.ExpandTierOffenses,
		HourStart:          c.HourStart,
		HourEnd:            c.HourEnd,
	}
}

// loadFiltered reads the incident table and runs the filter chain.
func loadFiltered(ctx context.Context, log *zap.Logger) (crime.Result, error) {
	if err := prepareData(ctx, cfg.Data); err != nil {
		return crime.Result{}, err
	}

	path := cfg.Data.Resolve(cfg.Data.CrimesCSV)
	records, err := crime.ReadCSVFile(ctx, path, crime.DecodeOptions{
		Encoding:             cfg.Data.Encoding,
		PlaceholderAsMissing: cfg.Data.PlaceholderAsMissing,
	})
	if err != nil {
		return crime.Result{}, err
	}
	log.Debug("loaded incidents", zap.String("path", path), zap.Int("rows", len(records)))

	res := crime.Filter(records, filterParams(cfg.Filter))
	for _, s := range res.Stages {
		log.Debug("filter stage", zap.String("stage", s.Stage), zap.Int("rows", s.Rows))
	}
	// The cutoff year is taken after the include stage, so changing the
	// include set can move it.
	log.Info("filtered incidents",
		zap.Int("crimes", len(res.Records)),
		zap.Int("year", res.Year),
		zap.Strings("tiers", res.Include.Tiers()),
		zap.Int("promoted_offenses", len(res.Include.Promoted())),
	)
	return res, nil
}

// joinDistricts counts the filtered incidents per district and joins them
// with the district boundaries.
func joinDistricts(records []crime.Record) ([]crime.AreaCount, []crime.Joined[boundary.Boundary], error) {
	counts, err := crime.CountByArea(records)
	if err != nil {
		return nil, nil, err
	}

	path := cfg.Data.Resolve(cfg.Data.DistrictsSHP)
	boundaries, err := boundary.LoadShapefile(path, boundary.Options{})
	if err != nil {
		return counts, nil, err
	}

	joined, err := crime.JoinBoundaries(counts, boundaries)
	if err != nil {
		return counts, nil, eris.Wrap(err, "join districts")
	}
	return counts, joined, nil
}
