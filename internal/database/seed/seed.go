// Package seed creates the program → area → parameter reference rows.
// Runs are idempotent: existing rows are matched by code and left untouched.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"accredapi/internal/config"
	"accredapi/internal/repository/postgres"
)

// Stats reports how many rows a run inserted.
type Stats struct {
	Programs   int
	Areas      int
	Parameters int
}

// Run seeds every program in programs with the full area template inside one transaction.
func Run(ctx context.Context, db *gorm.DB, programs []config.ProgramSeed, log *slog.Logger) (Stats, error) {
	var stats Stats
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range programs {
			prog := postgres.ProgramRow{}
			res := tx.Where(postgres.ProgramRow{Code: p.Code}).
				Attrs(postgres.ProgramRow{Name: p.Name}).
				FirstOrCreate(&prog)
			if res.Error != nil {
				return fmt.Errorf("seed program %s: %w", p.Code, res.Error)
			}
			stats.Programs += int(res.RowsAffected)

			for _, a := range Areas {
				area := postgres.AreaRow{}
				res := tx.Where(postgres.AreaRow{ProgramID: prog.ID, Code: a.Code}).
					Attrs(postgres.AreaRow{Name: a.Name}).
					FirstOrCreate(&area)
				if res.Error != nil {
					return fmt.Errorf("seed area %s/%s: %w", p.Code, a.Code, res.Error)
				}
				stats.Areas += int(res.RowsAffected)

				for _, pt := range a.Parameters {
					param := postgres.ParameterRow{}
					res := tx.Where(postgres.ParameterRow{ProgramID: prog.ID, AreaID: area.ID, Code: pt.Code}).
						Attrs(postgres.ParameterRow{Name: pt.Name}).
						FirstOrCreate(&param)
					if res.Error != nil {
						return fmt.Errorf("seed parameter %s/%s/%s: %w", p.Code, a.Code, pt.Code, res.Error)
					}
					stats.Parameters += int(res.RowsAffected)
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Error("seed_failed", "component", "database", "error", err.Error())
		return stats, err
	}
	log.Info("seed_completed",
		"component", "database",
		"programs_inserted", stats.Programs,
		"areas_inserted", stats.Areas,
		"parameters_inserted", stats.Parameters,
	)
	return stats, nil
}
