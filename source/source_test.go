package source_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/spoke/source"
)

const orderYAML = `
OrderId: 2
ShippingMethod: Overnight
OrderInfo:
  FirstName: Mister
  LastName: Mittens
  PostalCode: "60607"
Cases:
  - CaseId: 1
    CaseType: iph6tough
    Quantity: 1
    PrintImage:
      ImageType: jpg
      Url: https://example.com/a.jpg
`

func TestYAML(t *testing.T) {
	m, err := source.YAML([]byte(orderYAML))
	require.NoError(t, err)

	assert.Equal(t, 2, m["OrderId"])
	info, ok := m["OrderInfo"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "60607", info["PostalCode"])

	cases, ok := m["Cases"].([]any)
	require.True(t, ok)
	require.Len(t, cases, 1)
	img := cases[0].(map[string]any)["PrintImage"].(map[string]any)
	assert.Equal(t, "jpg", img["ImageType"])
}

func TestJSON_KeepsNumbers(t *testing.T) {
	m, err := source.JSON([]byte(`{"OrderId": 12345678901234567, "Cases": [{"Quantity": 2}]}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("12345678901234567"), m["OrderId"])
	q := m["Cases"].([]any)[0].(map[string]any)["Quantity"]
	assert.Equal(t, json.Number("2"), q)
}

func TestNotObject(t *testing.T) {
	_, err := source.JSON([]byte(`[1,2]`))
	assert.ErrorIs(t, err, source.ErrNotObject)

	_, err = source.YAML([]byte("- a\n- b\n"))
	assert.ErrorIs(t, err, source.ErrNotObject)

	_, err = source.YAML(nil)
	assert.ErrorIs(t, err, source.ErrNotObject)
}

func TestFile_ByExtension(t *testing.T) {
	dir := t.TempDir()

	yml := filepath.Join(dir, "order.yml")
	require.NoError(t, os.WriteFile(yml, []byte(orderYAML), 0o644))
	m, err := source.File(yml)
	require.NoError(t, err)
	assert.Equal(t, "Overnight", m["ShippingMethod"])

	js := filepath.Join(dir, "order.json")
	require.NoError(t, os.WriteFile(js, []byte(`{"OrderId": 9}`), 0o644))
	m, err = source.File(js)
	require.NoError(t, err)
	assert.Equal(t, json.Number("9"), m["OrderId"])

	noext := filepath.Join(dir, "order")
	require.NoError(t, os.WriteFile(noext, []byte(`{"OrderId": 10}`), 0o644))
	m, err = source.File(noext)
	require.NoError(t, err)
	assert.Equal(t, json.Number("10"), m["OrderId"])

	_, err = source.File(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
