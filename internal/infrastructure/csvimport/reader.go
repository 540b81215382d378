// Package csvimport lee catálogos de productos en CSV (name,sku,price,quantity).
// Acepta UTF-8 o ISO-8859-1 (exportaciones de hojas de cálculo en Windows).
package csvimport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

var header = []string{"name", "sku", "price", "quantity"}

// ReadProducts devuelve una solicitud de alta por fila. La cabecera es opcional.
// Si el contenido no es UTF-8 válido se decodifica como ISO-8859-1.
func ReadProducts(r io.Reader) ([]dto.CreateProductRequest, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csv: leer: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.FieldsPerRecord = len(header)
	cr.TrimLeadingSpace = true

	var out []dto.CreateProductRequest
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv: línea %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), header[0]) {
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(rec[2]))
		if err != nil {
			return nil, fmt.Errorf("csv: línea %d: price inválido %q", line, rec[2])
		}
		qty, err := strconv.Atoi(strings.TrimSpace(rec[3]))
		if err != nil {
			return nil, fmt.Errorf("csv: línea %d: quantity inválido %q", line, rec[3])
		}
		out = append(out, dto.CreateProductRequest{
			Name:     strings.TrimSpace(rec[0]),
			SKU:      strings.TrimSpace(rec[1]),
			Price:    price,
			Quantity: qty,
		})
	}
	return out, nil
}
