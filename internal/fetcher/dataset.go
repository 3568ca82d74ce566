package fetcher

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Dataset locates the extracted course data and the archive it comes from.
type Dataset struct {
	Dir        string // extracted data directory
	Archive    string // local ZIP archive path
	ArchiveURL string // optional download location for Archive
	// Entries limits extraction to the named archive members. Empty
	// extracts everything.
	Entries []string
}

// Prepare makes sure Dir exists. When it does not, the archive is downloaded
// (if missing locally and a URL is configured) and extracted into Dir.
// It reports whether anything was extracted.
func (d Dataset) Prepare(ctx context.Context, f Fetcher) (bool, error) {
	if _, err := os.Stat(d.Dir); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, eris.Wrapf(err, "dataset: stat %s", d.Dir)
	}

	if d.Archive == "" {
		return false, eris.Errorf("dataset: %s does not exist and no archive is configured", d.Dir)
	}

	if _, err := os.Stat(d.Archive); os.IsNotExist(err) {
		if d.ArchiveURL == "" || f == nil {
			return false, eris.Errorf("dataset: archive %s not found and no archive URL configured", d.Archive)
		}
		n, err := f.DownloadToFile(ctx, d.ArchiveURL, d.Archive)
		if err != nil {
			return false, eris.Wrap(err, "dataset: download archive")
		}
		zap.L().Info("dataset: downloaded archive",
			zap.String("url", d.ArchiveURL),
			zap.String("path", d.Archive),
			zap.Int64("bytes", n),
		)
	}

	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return false, eris.Wrap(err, "dataset: create data dir")
	}
	files, err := d.extract()
	if err != nil {
		return false, eris.Wrap(err, "dataset: extract archive")
	}

	zap.L().Info("dataset: extracted archive",
		zap.String("archive", d.Archive),
		zap.String("dir", d.Dir),
		zap.Int("files", len(files)),
	)
	return true, nil
}

func (d Dataset) extract() ([]string, error) {
	if len(d.Entries) == 0 {
		return ExtractZIP(d.Archive, d.Dir)
	}
	files := make([]string, 0, len(d.Entries))
	for _, name := range d.Entries {
		path, err := ExtractZIPFile(d.Archive, name, d.Dir)
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}
