package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Sheet identifica una de las cuatro fuentes tabulares.
type Sheet string

const (
	SheetSales   Sheet = "sales"
	SheetWebinar Sheet = "webinar"
	SheetSocial  Sheet = "social"
	SheetEmail   Sheet = "email"
)

var Sheets = []Sheet{SheetSales, SheetWebinar, SheetSocial, SheetEmail}

func ParseSheet(s string) (Sheet, bool) {
	switch Sheet(strings.ToLower(strings.TrimSpace(s))) {
	case SheetSales:
		return SheetSales, true
	case SheetWebinar:
		return SheetWebinar, true
	case SheetSocial:
		return SheetSocial, true
	case SheetEmail:
		return SheetEmail, true
	}
	return "", false
}

// columnas esperadas por fuente
const (
	ColSalesDate   = "Date and Time"
	ColSalesAmount = "Amount"
	ColSalesEmail  = "Email address"

	ColWebinarOrderID   = "Order ID"
	ColWebinarFirstName = "First Name"
	ColWebinarLastName  = "Last Name"
	ColWebinarDate      = "Date"
	ColWebinarAmount    = "Total Amount"
	ColWebinarEmail     = "Email"
	ColWebinarStatus    = "Payment Status"
	ColWebinarItems     = "Order"

	ColSocialDate        = "Date"
	ColSocialPlatform    = "Platform"
	ColSocialLikes       = "Likes/Reactions"
	ColSocialComments    = "Comments"
	ColSocialImpressions = "Impressions"
	ColSocialShares      = "Shares"
	ColSocialClicks      = "Clicks/Eng. Rate"
	ColSocialPost        = "Post"
	ColSocialTime        = "Time"
	ColSocialScore       = "Social Score"

	ColEmailDate    = "Date"
	ColEmailSender  = "Sender"
	ColEmailSubject = "Subject"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
)

// Cell es el valor sin tipo de una celda: string, número o vacío.
type Cell struct {
	kind CellKind
	str  string
	num  float64
}

var Empty = Cell{}

func Str(s string) Cell {
	if s == "" {
		return Empty
	}
	return Cell{kind: CellString, str: s}
}

func Num(f float64) Cell { return Cell{kind: CellNumber, num: f} }

func (c Cell) IsEmpty() bool { return c.kind == CellEmpty }

// Number devuelve el valor solo si la celda ya es numérica.
func (c Cell) Number() (float64, bool) {
	if c.kind != CellNumber {
		return 0, false
	}
	return c.num, true
}

// Text es la representación literal de la celda.
func (c Cell) Text() string {
	switch c.kind {
	case CellString:
		return c.str
	case CellNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	}
	return ""
}

func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case CellString:
		return json.Marshal(c.str)
	case CellNumber:
		if math.IsNaN(c.num) || math.IsInf(c.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(c.num)
	}
	return []byte("null"), nil
}

func (c *Cell) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*c = Empty
	case string:
		*c = Str(t)
	case float64:
		*c = Num(t)
	case bool:
		*c = Str(strconv.FormatBool(t))
	default:
		*c = Str(string(b))
	}
	return nil
}

// RawRecord es una fila tal como la entrega el almacén tabular.
type RawRecord map[string]Cell

// Get nunca falla: una columna ausente es una celda vacía.
func (r RawRecord) Get(col string) Cell {
	if r == nil {
		return Empty
	}
	return r[col]
}

func (r RawRecord) Text(col string) string { return strings.TrimSpace(r.Get(col).Text()) }

// Table conserva el orden de columnas de la cabecera.
type Table struct {
	Columns []string    `json:"columns"`
	Rows    []RawRecord `json:"rows"`
}

func NewTable(columns ...string) Table {
	return Table{Columns: append([]string(nil), columns...)}
}

func (t Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Add agrega una fila con los valores en el orden de Columns.
func (t *Table) Add(values ...string) {
	rec := make(RawRecord, len(t.Columns))
	for i, c := range t.Columns {
		if i < len(values) {
			rec[c] = Str(values[i])
		} else {
			rec[c] = Empty
		}
	}
	t.Rows = append(t.Rows, rec)
}

func (t Table) Len() int { return len(t.Rows) }

// Values devuelve la fila en el orden de columnas, como texto.
func (t Table) Values(i int) []string {
	out := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = t.Rows[i].Get(c).Text()
	}
	return out
}
