package trade

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DocumentPrefix identifies a document number series.
type DocumentPrefix string

const (
	// PrefixLot numbers inventory lots
	PrefixLot DocumentPrefix = "LOT"
	// PrefixGoodsReceipt numbers goods receipt notes
	PrefixGoodsReceipt DocumentPrefix = "GRN"
	// PrefixSalesOrder numbers sales orders
	PrefixSalesOrder DocumentPrefix = "SO"
	// PrefixSalesChallan numbers sales challans
	PrefixSalesChallan DocumentPrefix = "SC"
	// PrefixPurchaseOrder numbers purchase orders
	PrefixPurchaseOrder DocumentPrefix = "PO"
	// PrefixJobOrder exists for completeness; job orders are numbered by the
	// job-order module and carry no series in this service
	PrefixJobOrder DocumentPrefix = "JO"
)

// NumberScanner lists the identifiers already issued under a date prefix.
// Implementations run on the caller's transaction handle.
type NumberScanner interface {
	NumbersWithPrefix(ctx context.Context, prefix DocumentPrefix, datePrefix string) ([]string, error)
}

// DatePrefix formats the date part of a series, trailing slash included.
// Lots use the zero-padded numeric month (LOT/2025/07/20/); documents use
// the uppercase three-letter month (GRN/2025/JUL/20/).
func DatePrefix(prefix DocumentPrefix, date time.Time) string {
	if prefix == PrefixLot {
		return fmt.Sprintf("%s/%s/", prefix, date.Format("2006/01/02"))
	}
	return fmt.Sprintf("%s/%s/%s/%s/", prefix,
		date.Format("2006"), strings.ToUpper(date.Format("Jan")), date.Format("02"))
}

// Mint issues the next identifier in a series: the date prefix followed by
// the least positive integer absent among the numbers already issued that
// day. Deleted documents keep their numbers, so gaps from mid-sequence
// deletions are refilled while burned numbers stay burned. A concurrent
// mint of the same number is caught by the unique index and surfaces as
// DUPLICATE_NUMBER, which callers retry.
func Mint(ctx context.Context, scanner NumberScanner, prefix DocumentPrefix, date time.Time) (string, error) {
	datePrefix := DatePrefix(prefix, date)

	existing, err := scanner.NumbersWithPrefix(ctx, prefix, datePrefix)
	if err != nil {
		return "", err
	}

	used := make(map[int]bool, len(existing))
	for _, number := range existing {
		seq, ok := strings.CutPrefix(number, datePrefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(seq); err == nil && n > 0 {
			used[n] = true
		}
	}

	next := 1
	for used[next] {
		next++
	}
	return datePrefix + strconv.Itoa(next), nil
}
