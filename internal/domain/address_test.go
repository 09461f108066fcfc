package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabels(t *testing.T) {
	assert.Equal(t,
		[]string{"Logradouro", "Número", "Bairro", "Município", "Estado", "CEP", "País"},
		Labels(),
	)
}

func TestField_String(t *testing.T) {
	assert.Equal(t, "street", FieldStreet.String())
	assert.Equal(t, "postal_code", FieldPostalCode.String())
	assert.Equal(t, "unknown", Field(99).String())
	assert.Empty(t, Field(-1).Label())
}

func TestParsedAddress_Row(t *testing.T) {
	a := Decompose(testFullAddress)
	assert.Equal(t,
		[]string{"Tv. Djalma Dutra", "123", "Pedreira", "Belém", "PA", "66083-030", "Brazil"},
		a.Row(),
	)

	empty := ParsedAddress{}
	assert.Equal(t, []string{"", "", "", "", "", "", ""}, empty.Row())
	assert.True(t, empty.IsEmpty())
}

func TestParsedAddressFromRow(t *testing.T) {
	a := ParsedAddressFromRow([]string{"Rua A", "", " Marco ", "Belém"})
	require.NotNil(t, a.Street)
	assert.Equal(t, "Rua A", *a.Street)
	assert.Nil(t, a.HouseNumber)
	require.NotNil(t, a.Neighborhood)
	assert.Equal(t, "Marco", *a.Neighborhood)
	assert.Nil(t, a.Country, "short rows leave trailing fields nil")
}

func TestParsedAddress_JSON(t *testing.T) {
	a := Decompose("Rua Sem Número, Ananindeua")

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Equal(t,
		`{"Logradouro":"Rua Sem Número","Número":null,"Bairro":null,"Município":"Ananindeua","Estado":null,"CEP":null,"País":null}`,
		string(data),
	)

	var decoded ParsedAddress
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, a, decoded)
}

func TestParsedAddress_UnmarshalDropsBlankValues(t *testing.T) {
	var a ParsedAddress
	require.NoError(t, json.Unmarshal([]byte(`{"Logradouro":"  ","CEP":"66083-030"}`), &a))
	assert.Nil(t, a.Street)
	require.NotNil(t, a.PostalCode)
	assert.Equal(t, "66083-030", *a.PostalCode)
}
