// Package orderimport reads order history exports. The expected input is the
// CSV layout produced by e-commerce "order items" exports, one line item per
// row.
package orderimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/spendscan/internal/domain"
)

// Column layout of the order items export.
const (
	colOrderID = iota
	colOrderedAt
	colUnitPrice
	colTax
	colShipping
	colDiscount
	colTotalOwed
	colQuantity
	colProductName
	colPaymentInstrument
	colOrderStatus

	columnCount
)

const timestampLayout = "2006-01-02 15:04:05"

// ReadFile reads order items from a CSV file on disk.
func ReadFile(path string) ([]domain.OrderItemRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ReadFile: opening %q: %w", path, err)
	}
	defer f.Close()

	items, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("ReadFile: %q: %w", path, err)
	}
	return items, nil
}

// Read reads order items from CSV data. The first row is a header and is
// skipped. Any malformed row fails the whole import so a partial order
// history is never reconciled.
func Read(r io.Reader) ([]domain.OrderItemRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = columnCount

	// Header row.
	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("Read: reading header: %w", err)
	}

	var items []domain.OrderItemRecord
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("Read: line %d: %w", line, err)
		}

		item, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("Read: line %d: %w", line, err)
		}
		items = append(items, item)
	}

	return items, nil
}

func parseRecord(record []string) (domain.OrderItemRecord, error) {
	var item domain.OrderItemRecord

	item.OrderID = strings.TrimSpace(record[colOrderID])
	if item.OrderID == "" {
		return item, fmt.Errorf("empty order id")
	}

	orderedAt, err := time.Parse(timestampLayout, strings.TrimSpace(record[colOrderedAt]))
	if err != nil {
		return item, fmt.Errorf("parsing ordered_at: %w", err)
	}
	item.OrderedAt = orderedAt.UTC()

	amounts := []struct {
		col  int
		dest *float64
		name string
	}{
		{colUnitPrice, &item.UnitPrice, "unit_price"},
		{colTax, &item.Tax, "tax"},
		{colShipping, &item.Shipping, "shipping"},
		{colDiscount, &item.Discount, "discount"},
		{colTotalOwed, &item.TotalOwed, "total_owed"},
	}
	for _, a := range amounts {
		v, err := parseAmount(record[a.col])
		if err != nil {
			return item, fmt.Errorf("parsing %s: %w", a.name, err)
		}
		*a.dest = v
	}

	qty, err := strconv.Atoi(strings.TrimSpace(record[colQuantity]))
	if err != nil {
		return item, fmt.Errorf("parsing quantity: %w", err)
	}
	item.Quantity = qty

	item.ProductName = strings.TrimSpace(record[colProductName])
	item.PaymentInstrument = strings.TrimSpace(record[colPaymentInstrument])
	item.OrderStatus = strings.TrimSpace(record[colOrderStatus])

	return item, nil
}

// parseAmount accepts plain decimals, with or without thousands commas. An
// empty field is zero, matching how exports blank out non-applicable charges.
func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
