package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
	"gorm.io/gorm"
)

var tables = []string{
	"planets",
	"resources",
	"resource_inventories",
	"resource_price_histories",
	"trade_routes",
	"trade_agreements",
	"starships",
	"space_weathers",
}

func main() {
	var dsn, out string
	flag.StringVar(&dsn, "dsn", os.Getenv("GALAXY_DB_DSN"), "postgres dsn")
	flag.StringVar(&out, "out", "internal/adapter/repo/gorm/model", "output dir for generated models")
	flag.Parse()

	if dsn == "" {
		log.Fatal("missing --dsn or GALAXY_DB_DSN")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:      out,
		ModelPkgPath: "model",
		Mode:         gen.WithoutContext,
	})
	g.UseDB(db)
	g.WithImportPkgPath("github.com/shopspring/decimal", "gorm.io/datatypes")
	g.WithDataTypeMap(map[string]func(gorm.ColumnType) string{
		"numeric": func(gorm.ColumnType) string { return "decimal.Decimal" },
	})

	// Coordinate columns are JSONB holding a Point; see point.go.
	point := "datatypes.JSONType[Point]"
	for _, table := range tables {
		switch table {
		case "planets":
			g.GenerateModel(table, gen.FieldType("coordinates", point))
		case "space_weathers":
			g.GenerateModel(table,
				gen.FieldType("affected_region_start", point),
				gen.FieldType("affected_region_end", point),
			)
		default:
			g.GenerateModel(table)
		}
	}
	g.Execute()

	fmt.Printf("generated gorm models at %s\n", out)
}
