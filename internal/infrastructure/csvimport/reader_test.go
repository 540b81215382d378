package csvimport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestReadProducts_UTF8ConCabecera(t *testing.T) {
	in := "name,sku,price,quantity\nWidget,W-1,9.99,5\n\"Tornillo, 3mm\",T-3, 0.10 ,500\n"
	out, err := ReadProducts(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Widget", out[0].Name)
	assert.Equal(t, "9.99", out[0].Price.StringFixed(2))
	assert.Equal(t, "Tornillo, 3mm", out[1].Name)
	assert.Equal(t, 500, out[1].Quantity)
}

func TestReadProducts_Latin1(t *testing.T) {
	enc, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte("Piñón,P-1,2.50,3\n"))
	require.NoError(t, err)

	out, err := ReadProducts(bytes.NewReader(enc))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Piñón", out[0].Name)
}

func TestReadProducts_Errores(t *testing.T) {
	_, err := ReadProducts(strings.NewReader("A,A-1,abc,1\n"))
	assert.ErrorContains(t, err, "price")

	_, err = ReadProducts(strings.NewReader("A,A-1,1.00,x\n"))
	assert.ErrorContains(t, err, "quantity")

	_, err = ReadProducts(strings.NewReader("A,A-1\n"))
	assert.Error(t, err)
}
