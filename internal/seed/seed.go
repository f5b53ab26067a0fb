// Package seed loads the reference directory dataset into an empty database.
package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// DB is what seeding needs from the pool.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type building struct {
	Address   string
	Latitude  float64
	Longitude float64
}

type activity struct {
	Name   string
	Parent string
}

type organization struct {
	Name       string
	Building   int // index into Dataset.Buildings
	Activities []string
	Phones     []string
}

// Dataset is a self-contained set of rows referencing each other by name or index.
type Dataset struct {
	Buildings     []building
	Activities    []activity // parents must precede children
	Organizations []organization
}

// Reference is the dataset loaded by cmd/seed.
var Reference = Dataset{
	Buildings: []building{
		{Address: "г. Москва, ул. Ленина 1, офис 3", Latitude: 55.7558, Longitude: 37.6176},
		{Address: "г. Москва, ул. Тверская 10", Latitude: 55.7650, Longitude: 37.6050},
	},
	Activities: []activity{
		{Name: "Еда"},
		{Name: "Автомобили"},
		{Name: "Мясная продукция", Parent: "Еда"},
		{Name: "Молочная продукция", Parent: "Еда"},
		{Name: "Грузовые", Parent: "Автомобили"},
		{Name: "Легковые", Parent: "Автомобили"},
		{Name: "Запчасти", Parent: "Легковые"},
		{Name: "Аксессуары", Parent: "Легковые"},
	},
	Organizations: []organization{
		{
			Name:       "ООО Рога и Копыта",
			Building:   0,
			Activities: []string{"Мясная продукция", "Молочная продукция"},
			Phones:     []string{"2-222-222", "8-923-666-13-13"},
		},
		{
			Name:       "АвтоМир",
			Building:   1,
			Activities: []string{"Запчасти", "Аксессуары"},
			Phones:     []string{"3-333-333"},
		},
	},
}

// Validate checks that every reference inside d resolves.
func (d Dataset) Validate() error {
	known := make(map[string]bool, len(d.Activities))
	for _, a := range d.Activities {
		if known[a.Name] {
			return fmt.Errorf("duplicate activity %q", a.Name)
		}
		if a.Parent != "" && !known[a.Parent] {
			return fmt.Errorf("activity %q: parent %q not declared before it", a.Name, a.Parent)
		}
		known[a.Name] = true
	}
	for _, o := range d.Organizations {
		if o.Building < 0 || o.Building >= len(d.Buildings) {
			return fmt.Errorf("organization %q: building index %d out of range", o.Name, o.Building)
		}
		for _, name := range o.Activities {
			if !known[name] {
				return fmt.Errorf("organization %q: unknown activity %q", o.Name, name)
			}
		}
	}
	return nil
}

// Run inserts d in one transaction unless buildings already exist. Reports whether rows were inserted.
func Run(ctx context.Context, db DB, d Dataset, logger *zap.Logger) (bool, error) {
	if err := d.Validate(); err != nil {
		return false, err
	}
	var existing int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM buildings`).Scan(&existing); err != nil {
		return false, fmt.Errorf("count buildings: %w", err)
	}
	if existing > 0 {
		logger.Info("seed skipped, data present", zap.Int("buildings", existing))
		return false, nil
	}

	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		buildingIDs := make([]int64, len(d.Buildings))
		for i, b := range d.Buildings {
			if err := tx.QueryRow(ctx,
				`INSERT INTO buildings (address, latitude, longitude) VALUES ($1, $2, $3) RETURNING id`,
				b.Address, b.Latitude, b.Longitude,
			).Scan(&buildingIDs[i]); err != nil {
				return fmt.Errorf("insert building %q: %w", b.Address, err)
			}
		}

		activityIDs := make(map[string]int64, len(d.Activities))
		for _, a := range d.Activities {
			var parentID *int64
			if a.Parent != "" {
				p := activityIDs[a.Parent]
				parentID = &p
			}
			var id int64
			if err := tx.QueryRow(ctx,
				`INSERT INTO activities (name, parent_id) VALUES ($1, $2) RETURNING id`,
				a.Name, parentID,
			).Scan(&id); err != nil {
				return fmt.Errorf("insert activity %q: %w", a.Name, err)
			}
			activityIDs[a.Name] = id
		}

		for _, o := range d.Organizations {
			var orgID int64
			if err := tx.QueryRow(ctx,
				`INSERT INTO organizations (name, building_id) VALUES ($1, $2) RETURNING id`,
				o.Name, buildingIDs[o.Building],
			).Scan(&orgID); err != nil {
				return fmt.Errorf("insert organization %q: %w", o.Name, err)
			}
			for _, name := range o.Activities {
				if _, err := tx.Exec(ctx,
					`INSERT INTO organization_activity (organization_id, activity_id) VALUES ($1, $2)`,
					orgID, activityIDs[name],
				); err != nil {
					return fmt.Errorf("tag organization %q: %w", o.Name, err)
				}
			}
			for _, number := range o.Phones {
				if _, err := tx.Exec(ctx,
					`INSERT INTO phones (number, organization_id) VALUES ($1, $2)`,
					number, orgID,
				); err != nil {
					return fmt.Errorf("insert phone for %q: %w", o.Name, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	logger.Info("seed loaded",
		zap.Int("buildings", len(d.Buildings)),
		zap.Int("activities", len(d.Activities)),
		zap.Int("organizations", len(d.Organizations)),
	)
	return true, nil
}
