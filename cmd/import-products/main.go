package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	productsvc "github.com/adforgehq/adforge-backend/internal/products"
	"github.com/adforgehq/adforge-backend/pkg/config"
	"github.com/adforgehq/adforge-backend/pkg/db"
	"github.com/adforgehq/adforge-backend/pkg/logger"
	"github.com/adforgehq/adforge-backend/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "import-products"})

	_ = godotenv.Load()

	file := flag.String("file", "", "path to the product CSV file")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "missing -file")
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "import-products",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"file": *file,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	err = migrate.MaybeRunDev(ctx, cfg, logg, dbClient)
	requireResource(ctx, logg, "migrations", err)

	productService, err := productsvc.NewService(productsvc.NewRepository(dbClient.DB()), logg)
	requireResource(ctx, logg, "product service", err)

	f, err := os.Open(*file)
	requireResource(ctx, logg, "csv file", err)
	defer f.Close()

	imported, failed, err := importProducts(ctx, productService, f, logg)
	requireResource(ctx, logg, "csv import", err)

	logg.Info(logg.WithFields(ctx, map[string]any{
		"imported": imported,
		"failed":   failed,
	}), "import finished")
	if failed > 0 {
		os.Exit(1)
	}
}

// importProducts reads the catalog CSV row by row, importing what it can. A
// malformed row is logged and skipped rather than aborting the whole file.
func importProducts(ctx context.Context, svc productsvc.Service, r io.Reader, logg *logger.Logger) (imported, failed int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read csv header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"name", "selling_price"} {
		if _, ok := columns[required]; !ok {
			return 0, 0, fmt.Errorf("csv header missing %q column", required)
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logg.Warn(logg.WithFields(ctx, map[string]any{"line": line}), "skipping unreadable csv row")
			failed++
			continue
		}

		input, err := rowToInput(columns, record)
		if err == nil {
			_, err = svc.CreateProduct(ctx, input)
		}
		if err != nil {
			logg.Error(logg.WithFields(ctx, map[string]any{
				"line": line,
				"name": field(columns, record, "name"),
			}), "failed to import product", err)
			failed++
			continue
		}
		imported++
	}
	return imported, failed, nil
}

func rowToInput(columns map[string]int, record []string) (productsvc.CreateProductInput, error) {
	price, err := parseDecimalField(field(columns, record, "selling_price"))
	if err != nil {
		return productsvc.CreateProductInput{}, fmt.Errorf("selling_price: %w", err)
	}
	discount, err := parseDecimalField(field(columns, record, "discount_percentage"))
	if err != nil {
		return productsvc.CreateProductInput{}, fmt.Errorf("discount_percentage: %w", err)
	}
	return productsvc.CreateProductInput{
		Name:               field(columns, record, "name"),
		Category:           field(columns, record, "category"),
		SubCategory:        field(columns, record, "sub_category"),
		Description:        field(columns, record, "description"),
		SellingPrice:       price,
		DiscountPercentage: discount,
		Features:           splitFeatures(field(columns, record, "features")),
		ImageLink:          field(columns, record, "image_link"),
	}, nil
}

// parseDecimalField tolerates a trailing percent sign and treats a blank
// cell as zero, matching how the source catalog exports pricing columns.
func parseDecimalField(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, "%", ""))
	if cleaned == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(cleaned)
}

func splitFeatures(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	features := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			features = append(features, trimmed)
		}
	}
	return features
}

func field(columns map[string]int, record []string, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
