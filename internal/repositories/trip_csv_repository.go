package repositories

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tripdash/internal/domain"
	"tripdash/internal/domain/models"
	"tripdash/internal/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// TripCSVRepository reads trips from a delimited file.
type TripCSVRepository struct {
	Path string
}

func (r TripCSVRepository) Key() string {
	if abs, err := filepath.Abs(r.Path); err == nil {
		return "csv:" + abs
	}
	return "csv:" + r.Path
}

// Fingerprint is the file size plus modification time.
func (r TripCSVRepository) Fingerprint(_ context.Context) (string, error) {
	fi, err := os.Stat(r.Path)
	if err != nil {
		return "", r.openError(err)
	}
	return fmt.Sprintf("%d-%d", fi.Size(), fi.ModTime().UnixNano()), nil
}

func (r TripCSVRepository) Load(ctx context.Context) (*models.TripTable, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, r.openError(err)
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadTripsCSV(r.Path, f)
}

func (r TripCSVRepository) openError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NotFoundError{Resource: "dataset " + r.Path, Err: err}
	}
	return domain.DatasetError{Source: r.Path, Msg: "cannot open file", Err: err}
}

// ReadTripsCSV parses CSV content with a header row into a trip table.
// Every required column must be present; extra columns are ignored.
// A header without data rows yields an empty table.
func ReadTripsCSV(source string, rd io.Reader) (*models.TripTable, error) {
	raw, err := io.ReadAll(rd)
	if err != nil {
		return nil, domain.DatasetError{Source: source, Msg: "cannot read csv", Err: err}
	}

	df := dataframe.ReadCSV(bytes.NewReader(raw),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		if header, ok := headerOnly(raw); ok {
			if _, err := requireColumns(source, header); err != nil {
				return nil, err
			}
			return models.NewTripTable(source, nil), nil
		}
		return nil, domain.DatasetError{Source: source, Msg: "malformed csv", Err: df.Err}
	}

	names, err := requireColumns(source, df.Names())
	if err != nil {
		return nil, err
	}
	cols := make(map[string][]string, len(models.TripColumns))
	for _, c := range models.TripColumns {
		cols[c] = df.Col(names[c]).Records()
	}

	n := df.Nrow()
	trips := make([]models.Trip, n)
	for i := 0; i < n; i++ {
		row := i + 1
		t := &trips[i]
		t.CarCity = utils.TrimOrEmpty(cols["car_city"][i])
		t.CarBrand = utils.TrimOrEmpty(cols["car_brand"][i])
		t.CustomerName = utils.TrimOrEmpty(cols["customer_name"][i])

		var err error
		if t.PickupTime, err = parseTimeField(source, row, "pickup_time", cols["pickup_time"][i]); err != nil {
			return nil, err
		}
		if t.DropoffTime, err = parseTimeField(source, row, "dropoff_time", cols["dropoff_time"][i]); err != nil {
			return nil, err
		}
		if t.Distance, err = parseFloatField(source, row, "distance", cols["distance"][i]); err != nil {
			return nil, err
		}
		if t.Revenue, err = parseFloatField(source, row, "revenue", cols["revenue"][i]); err != nil {
			return nil, err
		}
	}

	return models.NewTripTable(source, trips), nil
}

// requireColumns maps each required column to its header name as written.
func requireColumns(source string, header []string) (map[string]string, error) {
	names := map[string]string{}
	for _, n := range header {
		names[strings.TrimSpace(n)] = n
	}
	out := make(map[string]string, len(models.TripColumns))
	for _, c := range models.TripColumns {
		name, ok := names[c]
		if !ok {
			return nil, domain.DatasetError{Source: source, Column: c, Msg: "missing required column"}
		}
		out[c] = name
	}
	return out, nil
}

// headerOnly reports whether raw holds a single header record and nothing else.
// gota refuses to build a frame from it.
func headerOnly(raw []byte) ([]string, bool) {
	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil || len(records) != 1 {
		return nil, false
	}
	return records[0], true
}

func parseTimeField(source string, row int, column, raw string) (time.Time, error) {
	t, err := utils.ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, domain.DatasetError{Source: source, Row: row, Column: column, Err: err}
	}
	return t, nil
}

func parseFloatField(source string, row int, column, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, domain.DatasetError{Source: source, Row: row, Column: column, Msg: fmt.Sprintf("not a number: %q", raw), Err: err}
	}
	return v, nil
}
