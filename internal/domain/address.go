package domain

import (
	"encoding/json"
	"strings"
)

// Field identifies one component of a decomposed address. The declaration
// order is the persisted column order.
type Field int

const (
	FieldStreet Field = iota
	FieldHouseNumber
	FieldNeighborhood
	FieldMunicipality
	FieldState
	FieldPostalCode
	FieldCountry
)

// Fields lists every address field in persisted column order.
var Fields = []Field{
	FieldStreet,
	FieldHouseNumber,
	FieldNeighborhood,
	FieldMunicipality,
	FieldState,
	FieldPostalCode,
	FieldCountry,
}

var fieldLabels = [...]string{
	FieldStreet:       "Logradouro",
	FieldHouseNumber:  "Número",
	FieldNeighborhood: "Bairro",
	FieldMunicipality: "Município",
	FieldState:        "Estado",
	FieldPostalCode:   "CEP",
	FieldCountry:      "País",
}

var fieldNames = [...]string{
	FieldStreet:       "street",
	FieldHouseNumber:  "house_number",
	FieldNeighborhood: "neighborhood",
	FieldMunicipality: "municipality",
	FieldState:        "state",
	FieldPostalCode:   "postal_code",
	FieldCountry:      "country",
}

// Label returns the column label used by spreadsheets, reports and the JSON
// form of ParsedAddress.
func (f Field) Label() string {
	if f < 0 || int(f) >= len(fieldLabels) {
		return ""
	}
	return fieldLabels[f]
}

// String returns a snake_case identifier suitable for metric labels.
func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[f]
}

// Labels returns the persisted column labels in order.
func Labels() []string {
	labels := make([]string, len(Fields))
	for i, f := range Fields {
		labels[i] = f.Label()
	}
	return labels
}

// ParsedAddress is the structured result of decomposing a formatted address.
// A nil field means the decomposer could not isolate that component.
type ParsedAddress struct {
	Street       *string
	HouseNumber  *string
	Neighborhood *string
	Municipality *string
	State        *string
	PostalCode   *string
	Country      *string
}

// Get returns the value of field f, or nil when it is unknown.
func (a ParsedAddress) Get(f Field) *string {
	switch f {
	case FieldStreet:
		return a.Street
	case FieldHouseNumber:
		return a.HouseNumber
	case FieldNeighborhood:
		return a.Neighborhood
	case FieldMunicipality:
		return a.Municipality
	case FieldState:
		return a.State
	case FieldPostalCode:
		return a.PostalCode
	case FieldCountry:
		return a.Country
	default:
		return nil
	}
}

// set stores a trimmed copy of value in field f. Blank values leave the field nil.
func (a *ParsedAddress) set(f Field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	switch f {
	case FieldStreet:
		a.Street = &value
	case FieldHouseNumber:
		a.HouseNumber = &value
	case FieldNeighborhood:
		a.Neighborhood = &value
	case FieldMunicipality:
		a.Municipality = &value
	case FieldState:
		a.State = &value
	case FieldPostalCode:
		a.PostalCode = &value
	case FieldCountry:
		a.Country = &value
	}
}

// IsEmpty reports whether no field was recovered.
func (a ParsedAddress) IsEmpty() bool {
	for _, f := range Fields {
		if a.Get(f) != nil {
			return false
		}
	}
	return true
}

// Row returns the field values in column order, with unknown fields as "".
func (a ParsedAddress) Row() []string {
	row := make([]string, len(Fields))
	for i, f := range Fields {
		if v := a.Get(f); v != nil {
			row[i] = *v
		}
	}
	return row
}

// ParsedAddressFromRow rebuilds a ParsedAddress from column-ordered cells.
// Empty cells become nil fields.
func ParsedAddressFromRow(row []string) ParsedAddress {
	var a ParsedAddress
	for i, f := range Fields {
		if i < len(row) {
			a.set(f, row[i])
		}
	}
	return a
}

// MarshalJSON writes every field under its column label, in column order,
// using null for unknown fields.
func (a ParsedAddress) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(f.Label())
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.Get(f))
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// UnmarshalJSON accepts the labelled form produced by MarshalJSON.
func (a *ParsedAddress) UnmarshalJSON(data []byte) error {
	var m map[string]*string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*a = ParsedAddress{}
	for _, f := range Fields {
		if v := m[f.Label()]; v != nil {
			a.set(f, *v)
		}
	}
	return nil
}
