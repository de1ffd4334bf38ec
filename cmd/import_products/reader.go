package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/pos-api/internal/application/dto"
)

// Columnas esperadas: sku;name;price;cost;initial_stock (la cabecera es opcional).
const numColumns = 5

// rowError fila del archivo que no se pudo interpretar.
type rowError struct {
	Line int
	Err  error
}

func (e rowError) Error() string { return fmt.Sprintf("línea %d: %v", e.Line, e.Err) }

// decodeReader envuelve r según la codificación del archivo (latin1 o utf8).
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf8", "utf-8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("codificación no soportada: %s", encoding)
	}
}

// readProducts lee el CSV y devuelve las filas válidas y los errores por línea.
func readProducts(r io.Reader) ([]dto.CreateProductRequest, []rowError, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var (
		out  []dto.CreateProductRequest
		errs []rowError
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("leer CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "sku") {
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		p, err := parseRecord(rec)
		if err != nil {
			errs = append(errs, rowError{Line: line, Err: err})
			continue
		}
		out = append(out, p)
	}
	return out, errs, nil
}

func parseRecord(rec []string) (dto.CreateProductRequest, error) {
	if len(rec) != numColumns {
		return dto.CreateProductRequest{}, fmt.Errorf("se esperaban %d columnas, hay %d", numColumns, len(rec))
	}
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	price, err := parseMoney(rec[2])
	if err != nil {
		return dto.CreateProductRequest{}, fmt.Errorf("precio: %w", err)
	}
	cost, err := parseMoney(rec[3])
	if err != nil {
		return dto.CreateProductRequest{}, fmt.Errorf("costo: %w", err)
	}
	var stock int64
	if rec[4] != "" {
		stock, err = strconv.ParseInt(rec[4], 10, 64)
		if err != nil || stock < 0 {
			return dto.CreateProductRequest{}, fmt.Errorf("stock inicial inválido %q", rec[4])
		}
	}
	return dto.CreateProductRequest{
		SKU:          rec[0],
		Name:         rec[1],
		Price:        price,
		Cost:         cost,
		InitialStock: stock,
	}, nil
}

// parseMoney acepta punto o coma como separador decimal.
func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}
