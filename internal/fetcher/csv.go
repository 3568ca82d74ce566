// Package fetcher reads the raw inputs of a run: delimited incident files in
// any charset, dataset archives, and archive downloads.
package fetcher

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	Delimiter  rune            // default ','
	HasHeader  bool            // if true, first row is skipped but sent to HeaderCh
	HeaderCh   chan<- []string // optional: receives the header row
	Comment    rune            // comment character (0 = none)
	Encoding   string          // source charset label, e.g. "latin-1" (default UTF-8)
	LazyQuotes bool
	TrimSpace  bool
}

// DecodeReader wraps r so that bytes in the named charset are read as UTF-8.
// WHATWG labels ("latin1", "iso-8859-1", "windows-1252", ...) are tried
// first, then Python-style spellings such as "latin-1", then IANA names
// ("IBM437", ...). An empty label returns r unchanged.
func DecodeReader(r io.Reader, label string) (io.Reader, error) {
	if label == "" {
		return r, nil
	}
	enc, err := lookupEncoding(label)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return r, nil
	}
	return enc.NewDecoder().Reader(r), nil
}

func lookupEncoding(label string) (encoding.Encoding, error) {
	name := strings.ToLower(strings.TrimSpace(label))
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}
	// latin-1, latin_1 -> latin1
	if rest, ok := strings.CutPrefix(name, "latin"); ok {
		if enc, err := htmlindex.Get("latin" + strings.TrimLeft(rest, "-_ ")); err == nil {
			return enc, nil
		}
	}
	if enc, err := ianaindex.IANA.Encoding(label); err == nil && enc != nil {
		return enc, nil
	}
	return nil, eris.Errorf("csv: unsupported encoding %q", label)
}

// StreamCSV reads a CSV file and sends rows to a channel.
// Caller must consume the returned row channel. Errors are sent on the error channel.
// Both channels are closed when processing completes.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		src, err := DecodeReader(r, opts.Encoding)
		if err != nil {
			errCh <- err
			return
		}

		reader := csv.NewReader(src)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		if opts.Comment != 0 {
			reader.Comment = opts.Comment
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1 // allow variable fields

		first := true
		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			if opts.TrimSpace {
				for i, field := range record {
					record[i] = strings.TrimSpace(field)
				}
			}

			if first && opts.HasHeader {
				first = false
				if opts.HeaderCh != nil {
					select {
					case opts.HeaderCh <- record:
					case <-ctx.Done():
						errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled sending header")
						return
					}
				}
				continue
			}
			first = false

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}
