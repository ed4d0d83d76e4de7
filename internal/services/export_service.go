package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tripdash/internal/domain/models"
	"tripdash/internal/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ExportCSV writes the filtered rows with the dataset's column layout.
func (s DashboardService) ExportCSV(ctx context.Context, q DashboardQuery, w io.Writer) (int, error) {
	_, trips, err := s.Filtered(ctx, q)
	if err != nil {
		return 0, err
	}
	if err := WriteTripsCSV(w, trips); err != nil {
		return 0, err
	}
	utils.LogEvent(s.RequestID, "export", "csv", fmt.Sprintf("rows=%d", len(trips)))
	return len(trips), nil
}

// WriteTripsCSV renders trips through a dataframe so the output matches the
// loader's expectations and can be read back unchanged.
func WriteTripsCSV(w io.Writer, trips []models.Trip) error {
	cols := make([][]string, len(models.TripColumns))
	for i := range cols {
		cols[i] = make([]string, len(trips))
	}
	for i, t := range trips {
		cols[0][i] = t.CarCity
		cols[1][i] = t.CarBrand
		cols[2][i] = t.CustomerName
		cols[3][i] = utils.FormatDateTime(t.PickupTime)
		cols[4][i] = utils.FormatDateTime(t.DropoffTime)
		cols[5][i] = strconv.FormatFloat(t.Distance, 'f', -1, 64)
		cols[6][i] = strconv.FormatFloat(t.Revenue, 'f', -1, 64)
	}

	if len(trips) == 0 {
		_, err := io.WriteString(w, headerLine())
		return err
	}

	ss := make([]series.Series, len(cols))
	for i, name := range models.TripColumns {
		ss[i] = series.New(cols[i], series.String, name)
	}
	df := dataframe.New(ss...)
	if df.Err != nil {
		return df.Err
	}
	return df.WriteCSV(w)
}

func headerLine() string {
	return strings.Join(models.TripColumns, ",") + "\n"
}
