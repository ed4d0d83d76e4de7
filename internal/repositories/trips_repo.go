package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tripdash/internal/domain"
	"tripdash/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

// TripSQLRepository reads the trip export from a database table.
// It never writes; the table is treated like the CSV file.
type TripSQLRepository struct {
	DB    *sqlx.DB
	Table string
}

type tripRow struct {
	CarCity      string         `db:"car_city"`
	CarBrand     string         `db:"car_brand"`
	CustomerName string         `db:"customer_name"`
	PickupTime   sql.NullString `db:"pickup_time"`
	DropoffTime  sql.NullString `db:"dropoff_time"`
	Distance     float64        `db:"distance"`
	Revenue      float64        `db:"revenue"`
}

func (r TripSQLRepository) table() string {
	if t := strings.TrimSpace(r.Table); t != "" {
		return t
	}
	return "car_sharing_trips"
}

func (r TripSQLRepository) Key() string {
	return "sql:" + r.DB.DriverName() + ":" + r.table()
}

// Fingerprint is the row count; appended exports change it.
func (r TripSQLRepository) Fingerprint(ctx context.Context) (string, error) {
	var n int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", r.table())
	if err := r.DB.GetContext(ctx, &n, query); err != nil {
		return "", domain.DatasetError{Source: r.Key(), Msg: "count rows", Err: err}
	}
	return fmt.Sprintf("%d", n), nil
}

func (r TripSQLRepository) Load(ctx context.Context) (*models.TripTable, error) {
	cols := []string{
		"COALESCE(car_city,'') AS car_city",
		"COALESCE(car_brand,'') AS car_brand",
		"COALESCE(customer_name,'') AS customer_name",
		"pickup_time",
		"dropoff_time",
		"COALESCE(distance,0) AS distance",
		"COALESCE(revenue,0) AS revenue",
	}
	query := fmt.Sprintf(`SELECT %s FROM %s`, strings.Join(cols, ", "), r.table())

	rows := []tripRow{}
	if err := r.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, domain.DatasetError{Source: r.Key(), Msg: "query trips", Err: err}
	}

	source := r.Key()
	trips := make([]models.Trip, len(rows))
	for i, row := range rows {
		pickup, err := parseTimeField(source, i+1, "pickup_time", row.PickupTime.String)
		if err != nil {
			return nil, err
		}
		dropoff, err := parseTimeField(source, i+1, "dropoff_time", row.DropoffTime.String)
		if err != nil {
			return nil, err
		}
		trips[i] = models.Trip{
			CarCity:      strings.TrimSpace(row.CarCity),
			CarBrand:     strings.TrimSpace(row.CarBrand),
			CustomerName: strings.TrimSpace(row.CustomerName),
			PickupTime:   pickup,
			DropoffTime:  dropoff,
			Distance:     row.Distance,
			Revenue:      row.Revenue,
		}
	}
	return models.NewTripTable(source, trips), nil
}
