package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"storefront-api/internal/domain"
)

type ProductWriter interface {
	UpsertByName(ctx context.Context, p domain.Product) (*domain.Product, bool, error)
}

// CSVImporter reads product rows (name, description, price, image_url, stock)
// and creates or updates products matched by name.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
	logger      zerolog.Logger
}

func NewCSVImporter(r io.Reader, repo ProductWriter, logger zerolog.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
		logger:      logger,
	}
}

// Result counts the products touched by a run.
type Result struct {
	Created int
	Updated int
}

func (r Result) Total() int {
	return r.Created + r.Updated
}

var requiredColumns = []string{"name", "price", "stock"}

// Run parses all rows and upserts them in file order. It stops at the first
// invalid row; rows before it stay imported.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result

	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return res, fmt.Errorf("missing column %q", col)
		}
	}

	n := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		n++
		if err != nil {
			return res, fmt.Errorf("read record %d: %w", n, err)
		}
		if blank(record) {
			continue
		}

		p, err := parseRow(record, index)
		if err != nil {
			return res, fmt.Errorf("record %d: %w", n, err)
		}
		saved, created, err := i.productRepo.UpsertByName(ctx, p)
		if err != nil {
			return res, fmt.Errorf("upsert product %q: %w", p.Name, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
		i.logger.Debug().Str("product_id", saved.ID).Str("name", saved.Name).Bool("created", created).Msg("imported product")
	}

	return res, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	p := domain.Product{
		Name:        pick(record, index, "name"),
		Description: pick(record, index, "description"),
		ImageURL:    pick(record, index, "image_url"),
	}
	if p.Name == "" {
		return p, errors.New("name is required")
	}

	price, err := strconv.ParseFloat(pick(record, index, "price"), 64)
	if err != nil || price < 0 {
		return p, fmt.Errorf("invalid price %q", pick(record, index, "price"))
	}
	stock, err := strconv.Atoi(pick(record, index, "stock"))
	if err != nil || stock < 0 {
		return p, fmt.Errorf("invalid stock %q", pick(record, index, "stock"))
	}
	p.Price = price
	p.Stock = stock
	return p, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
