package util

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizeBid rounds a bid value to two decimal places. Every comparison
// in the ledger happens on normalized values so that 15.004 and 15.00
// cannot race each other as "different" bids.
func NormalizeBid(value float64) float64 {
	return math.Round(value*100) / 100
}

// FormatBidValue renders a bid value the way clients expect it on the wire,
// always with two decimal places.
func FormatBidValue(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

// ParseBidValue coerces a decoded JSON value into a bid amount. Legacy
// clients send the amount either as a number or as a string.
func ParseBidValue(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case string:
		value, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("non-numeric bid value %q", v)
		}
		return value, nil
	case json.Number:
		value, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("non-numeric bid value %q", v.String())
		}
		return value, nil
	default:
		return 0, fmt.Errorf("bid value must be a number or numeric string")
	}
}
