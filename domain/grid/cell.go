package grid

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// CellKind discriminates the value held by a Cell.
type CellKind uint8

const (
	KindEmpty CellKind = iota
	KindText
	KindNumber
	KindBool
)

// Cell is a tagged scalar value: text, number, boolean or empty.
// No other value types are representable; imports and generation
// payloads are normalized into one of these four kinds.
type Cell struct {
	Kind   CellKind `json:"-"`
	Text   string   `json:"-"`
	Number float64  `json:"-"`
	Bool   bool     `json:"-"`
}

// TextCell creates a text cell
func TextCell(s string) Cell {
	return Cell{Kind: KindText, Text: s}
}

// NumberCell creates a numeric cell
func NumberCell(f float64) Cell {
	return Cell{Kind: KindNumber, Number: f}
}

// BoolCell creates a boolean cell
func BoolCell(b bool) Cell {
	return Cell{Kind: KindBool, Bool: b}
}

// EmptyCell creates an empty cell
func EmptyCell() Cell {
	return Cell{Kind: KindEmpty}
}

// String renders the cell the way the query and chart paths consume it:
// text verbatim, numbers in their shortest decimal form, booleans as
// "true"/"false", empty cells as "".
func (c Cell) String() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(c.Bool)
	default:
		return ""
	}
}

// Float returns the numeric value and true when the cell is a number
func (c Cell) Float() (float64, bool) {
	if c.Kind == KindNumber {
		return c.Number, true
	}
	return 0, false
}

// MarshalJSON emits the native JSON scalar for the cell, so a marshalled
// sheet matches the {string|number|boolean|null} wire contract directly.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindText:
		return json.Marshal(c.Text)
	case KindNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			// Non-finite values are not representable in JSON
			return []byte("null"), nil
		}
		return json.Marshal(c.Number)
	case KindBool:
		return strconv.AppendBool(nil, c.Bool), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts any JSON value. Scalars map onto the four cell
// kinds; objects and arrays are not part of the cell model and are kept
// as their compact JSON text.
func (c *Cell) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = EmptyCell()
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = TextCell(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*c = BoolCell(b)
		return nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return err
		}
		*c = TextCell(buf.String())
		return nil
	default:
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return err
		}
		*c = NumberCell(f)
		return nil
	}
}
