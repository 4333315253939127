package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"tacticalops/clanhub/internal/config"
	"tacticalops/clanhub/internal/constants"
	"tacticalops/clanhub/internal/db"
	"tacticalops/clanhub/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

var defaultRanks = []entities.RankRow{
	{Level: 0, PointsRequired: 0, Name: "Recruit"},
	{Level: 1, PointsRequired: 100, Name: "Private"},
	{Level: 2, PointsRequired: 300, Name: "Corporal"},
	{Level: 3, PointsRequired: 750, Name: "Sergeant"},
	{Level: 4, PointsRequired: 1500, Name: "Lieutenant"},
	{Level: 5, PointsRequired: 3000, Name: "Captain"},
	{Level: 6, PointsRequired: 6000, Name: "Major"},
	{Level: 7, PointsRequired: 12000, Name: "Colonel"},
	{Level: 8, PointsRequired: 25000, Name: "General"},
}

type sampleField struct {
	state    string
	gameType constants.GameType
	name     string
}

var sampleFields = []sampleField{
	{"Texas", constants.GameTypeAirsoft, "Fort Hood Range"},
	{"Texas", constants.GameTypeAirsoft, "Austin CQB"},
	{"Texas", constants.GameTypePaintball, "Houston Paint Park"},
	{"California", constants.GameTypeAirsoft, "Mojave Outpost"},
	{"California", constants.GameTypePaintball, "Bay Area Splat"},
	{"Nevada", constants.GameTypeAirsoft, "Vegas Arena"},
	{"Florida", constants.GameTypePaintball, "Orlando Fields"},
}

func main() {
	migrate := flag.Bool("migrate", true, "create tables before seeding")
	withFields := flag.Bool("fields", true, "seed sample fields")
	flag.Parse()

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}
	pg, err := config.LoadPostgres(appEnv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if *migrate {
		gdb, err := db.InitPostgresORM(pg.DSN())
		if err != nil {
			log.Fatalf("open gorm: %v", err)
		}
		if err := db.AutoMigrate(gdb); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	conn, err := db.InitPostgres(pg.DSN())
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := seed(ctx, conn, *withFields); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("Seeded %d rank levels", len(defaultRanks))
}

func seed(ctx context.Context, conn *sqlx.DB, withFields bool) error {
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range defaultRanks {
		if _, err := tx.ExecContext(ctx, constants.InsertRankLevel, r.Level, r.PointsRequired, r.Name); err != nil {
			return err
		}
	}
	if withFields {
		for _, f := range sampleFields {
			if _, err := tx.ExecContext(ctx, constants.InsertField, f.state, f.gameType, f.name); err != nil {
				return err
			}
		}
		log.Printf("Seeded %d sample fields", len(sampleFields))
	}
	return tx.Commit()
}
