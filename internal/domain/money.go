package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a monetary amount as the backend serves it. The backend is loose
// about encoding: a bare number, a numeric string, or an object {"price": n}
// all appear in the wild. Normalization happens here, once, at the decode
// boundary; everything downstream sees a plain decimal. Malformed values
// decode to zero rather than failing the whole payload.
type Price struct {
	decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		p.Decimal = decimal.Zero
		return nil
	}

	if data[0] == '{' {
		var wrapped struct {
			Price json.RawMessage `json:"price"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil || len(wrapped.Price) == 0 {
			p.Decimal = decimal.Zero
			return nil
		}
		return p.UnmarshalJSON(wrapped.Price)
	}

	d, err := decimal.NewFromString(strings.Trim(string(data), `"`))
	if err != nil {
		p.Decimal = decimal.Zero
		return nil
	}

	p.Decimal = d
	return nil
}

// MarshalJSON implements json.Marshaler. Prices render as plain numbers.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.String()), nil
}

// Money is a monetary amount on its way out of the system. It renders as a
// plain JSON number rounded to two decimal places; internal math stays exact
// (decimal) so rounding never compounds.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps a decimal for presentation.
func NewMoney(d decimal.Decimal) Money {
	return Money{d}
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.StringFixed(2)), nil
}

// UnmarshalJSON implements json.Unmarshaler. Accepts numbers and numeric
// strings; malformed values decode to zero (defensive default, see Price).
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		m.Decimal = decimal.Zero
		return nil
	}

	d, err := decimal.NewFromString(strings.Trim(string(data), `"`))
	if err != nil {
		m.Decimal = decimal.Zero
		return nil
	}

	m.Decimal = d
	return nil
}

// Stock is a unit count normalized from the backend's inventory shapes:
//
//	{"quantity": n}            simple product inventory
//	[{"quantity": n}, ...]     variant inventory, first location wins
//	{"available": n}           variant availability object
//	n                          already a bare count
//
// Absent, negative or malformed values decode to zero.
type Stock int

// UnmarshalJSON implements json.Unmarshaler.
func (s *Stock) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*s = 0
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	switch data[0] {
	case '[':
		var locations []json.RawMessage
		if err := json.Unmarshal(data, &locations); err != nil || len(locations) == 0 {
			return nil
		}
		return s.UnmarshalJSON(locations[0])
	case '{':
		var record struct {
			Quantity  json.RawMessage `json:"quantity"`
			Available json.RawMessage `json:"available"`
		}
		if err := json.Unmarshal(data, &record); err != nil {
			return nil
		}
		if len(record.Quantity) > 0 {
			return s.UnmarshalJSON(record.Quantity)
		}
		if len(record.Available) > 0 {
			return s.UnmarshalJSON(record.Available)
		}
		return nil
	default:
		var n float64
		if err := json.Unmarshal(bytes.Trim(data, `"`), &n); err != nil {
			return nil
		}
		if n > 0 {
			*s = Stock(n)
		}
		return nil
	}
}

// Units returns the count as a plain int.
func (s Stock) Units() int {
	return int(s)
}
