package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"retail-assistant/internal/config"
	"retail-assistant/internal/query"
)

func main() {
	_ = godotenv.Load(".env")

	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

// run seeds the database named by -db, which defaults to DB_FILE.
func run(args []string, out io.Writer) error {
	st, err := config.LoadStorage()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("seed-db", flag.ContinueOnError)
	path := fs.String("db", st.DBFile, "SQLite file to seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := query.Open(*path)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := query.Seed(db); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	var products []query.Product
	if err := db.Order("ProductID").Find(&products).Error; err != nil {
		return fmt.Errorf("failed to read products: %w", err)
	}

	fmt.Fprintf(out, "Seeded %s\n", *path)
	fmt.Fprintln(out, "The Inserted Records are: ")
	for _, p := range products {
		fmt.Fprintf(out, "%d | %s | %s | %.2f | %d | %d | %s\n",
			p.ProductID, p.ProductName, p.Category, p.Price, p.StockQuantity, p.SalesLastMonth, p.Description)
	}
	return nil
}
