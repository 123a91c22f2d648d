package models_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"invoiceprinter/pkg/models"
)

func sampleItems() []models.Item {
	return []models.Item{
		models.NewItem(models.ItemOptions{
			Name:     "Programming",
			Quantity: "10",
			Unit:     "hr",
			Price:    "$ 60",
			Tax:      "$ 10",
			Amount:   "$ 600",
		}),
		models.NewItem(models.ItemOptions{
			Name:      "Consulting",
			Breakdown: "Architecture review",
			Quantity:  "1",
			Amount:    "$ 100",
		}),
	}
}

func sampleDocument() models.Document {
	return models.NewDocument(models.DocumentOptions{
		Number: "198900000001",
		Provider: models.Party{
			Name:             "Business s.r.o.",
			TaxID:            "56565656",
			TaxID2:           "465454",
			Street:           "Rolnicka",
			StreetNumber:     "1",
			Postcode:         "747 05",
			City:             "Opava",
			CityPart:         "Katerinky",
			ExtraAddressLine: "Czech Republic",
		},
		Purchaser: models.Party{
			Name:         "Adam",
			Street:       "Ostravska",
			StreetNumber: "1",
			Postcode:     "747 70",
			City:         "Opava",
		},
		IssueDate:         "19/03/3939",
		DueDate:           "19/03/3939",
		Subtotal:          "$ 150",
		Tax:               "$ 50",
		Total:             "$ 200",
		BankAccountNumber: "156546546465",
		AccountIBAN:       "IBAN464545645",
		AccountSWIFT:      "SWIFT5456",
		Items:             sampleItems(),
		Note:              "A note at the end.",
	})
}

var scalarKeys = []string{
	"number",
	"provider_name", "provider_tax_id", "provider_tax_id2", "provider_street",
	"provider_street_number", "provider_postcode", "provider_city",
	"provider_city_part", "provider_extra_address_line",
	"purchaser_name", "purchaser_tax_id", "purchaser_tax_id2", "purchaser_street",
	"purchaser_street_number", "purchaser_postcode", "purchaser_city",
	"purchaser_city_part", "purchaser_extra_address_line",
	"issue_date", "due_date",
	"subtotal", "tax", "tax2", "tax3", "total",
	"bank_account_number", "account_details", "account_iban", "account_swift",
	"note",
}

func TestFromStructuredData_MinimalDocument(t *testing.T) {
	doc, err := models.FromStructuredData(map[string]interface{}{
		"number":        "198900000001",
		"provider_name": "Business s.r.o.",
		"items":         []interface{}{},
	})
	require.NoError(t, err)

	out := doc.ToStructuredData()
	assert.Equal(t, "198900000001", out["number"])
	assert.Equal(t, "Business s.r.o.", out["provider_name"])
	assert.Equal(t, "", out["provider_tax_id"])
	assert.Equal(t, "", out["note"])
	assert.Equal(t, []map[string]interface{}{}, out["items"])
}

func TestFromStructuredData_MissingKeysBecomeEmptyStrings(t *testing.T) {
	doc, err := models.FromStructuredData(map[string]interface{}{})
	require.NoError(t, err)

	out := doc.ToStructuredData()
	assert.Len(t, out, len(scalarKeys)+1)
	for _, key := range scalarKeys {
		value, ok := out[key]
		require.True(t, ok, key)
		assert.Equal(t, "", value, key)
	}
	assert.Empty(t, doc.Items())
	assert.Equal(t, models.Party{}, doc.Provider())
	assert.Equal(t, models.Party{}, doc.Purchaser())
}

func TestFromStructuredData_CoercesScalars(t *testing.T) {
	doc, err := models.FromStructuredData(map[string]interface{}{
		"number":          198900000001,
		"subtotal":        150.5,
		"tax":             json.Number("50"),
		"total":           int64(200),
		"provider_tax_id": nil,
		"note":            true,
		"unknown_key":     "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, "198900000001", doc.Number())
	assert.Equal(t, "150.5", doc.Subtotal())
	assert.Equal(t, "50", doc.Tax())
	assert.Equal(t, "200", doc.Total())
	assert.Equal(t, "", doc.Provider().TaxID)
	assert.Equal(t, "true", doc.Note())
	assert.NotContains(t, doc.ToStructuredData(), "unknown_key")
}

func TestFromStructuredData_MapsItemsInOrder(t *testing.T) {
	items := sampleItems()
	doc, err := models.FromStructuredData(map[string]interface{}{
		"items": []interface{}{
			items[0].ToStructuredData(),
			items[1].ToStructuredData(),
		},
	})
	require.NoError(t, err)

	exported := doc.ToStructuredData()["items"].([]map[string]interface{})
	require.Len(t, exported, 2)
	assert.Equal(t, items[0].ToStructuredData(), exported[0])
	assert.Equal(t, items[1].ToStructuredData(), exported[1])
	assert.Equal(t, items, doc.Items())
}

func TestFromStructuredData_AcceptsItemValues(t *testing.T) {
	items := sampleItems()
	doc, err := models.FromStructuredData(map[string]interface{}{
		"items": []interface{}{items[0], &items[1], map[string]string{"name": "Support"}},
	})
	require.NoError(t, err)

	got := doc.Items()
	require.Len(t, got, 3)
	assert.Equal(t, items[0], got[0])
	assert.Equal(t, items[1], got[1])
	assert.Equal(t, "Support", got[2].Name())
}

func TestFromStructuredData_RejectsNonItems(t *testing.T) {
	tests := []struct {
		name  string
		items interface{}
	}{
		{"string element", []interface{}{"not an item"}},
		{"number element", []interface{}{42}},
		{"nil element", []interface{}{nil}},
		{"nil item pointer", []interface{}{(*models.Item)(nil)}},
		{"nested list", []interface{}{[]interface{}{}}},
		{"valid then invalid", []interface{}{map[string]interface{}{"name": "ok"}, "bad"}},
		{"not a sequence", "items"},
		{"mapping instead of sequence", map[string]interface{}{"name": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := models.FromStructuredData(map[string]interface{}{
				"number": "1",
				"items":  tt.items,
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrInvalidInput))
			assert.Contains(t, err.Error(), "items are not only a type of Item")
			assert.Equal(t, models.Document{}, doc)

			var inputErr *models.InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, "FromStructuredData", inputErr.Op)
		})
	}
}

func TestFromStructuredData_ReportsIndexOfBadItem(t *testing.T) {
	_, err := models.FromStructuredData(map[string]interface{}{
		"items": []interface{}{map[string]interface{}{}, map[string]interface{}{}, 3.5},
	})

	var inputErr *models.InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, 2, inputErr.Index)
	assert.Contains(t, err.Error(), "items[2]")
}

func TestDocument_RoundTrip(t *testing.T) {
	doc := sampleDocument()

	rebuilt, err := models.FromStructuredData(doc.ToStructuredData())
	require.NoError(t, err)
	assert.Equal(t, doc, rebuilt)
}

func TestDocument_RoundTripEmpty(t *testing.T) {
	doc := models.NewDocument(models.DocumentOptions{})

	rebuilt, err := models.FromStructuredData(doc.ToStructuredData())
	require.NoError(t, err)
	assert.Equal(t, doc, rebuilt)
}

func TestDocument_ExportIsIdempotent(t *testing.T) {
	doc := sampleDocument()
	assert.Equal(t, doc.ToStructuredData(), doc.ToStructuredData())
}

func TestDocument_ExportHasEveryKey(t *testing.T) {
	out := sampleDocument().ToStructuredData()
	for _, key := range scalarKeys {
		assert.Contains(t, out, key)
	}
	assert.Contains(t, out, "items")
	assert.Equal(t, "Katerinky", out["provider_city_part"])
	assert.Equal(t, "Ostravska", out["purchaser_street"])
	assert.Equal(t, "SWIFT5456", out["account_swift"])
}

func TestNewDocument_CopiesItems(t *testing.T) {
	items := sampleItems()
	doc := models.NewDocument(models.DocumentOptions{Items: items})

	items[0] = models.NewItem(models.ItemOptions{Name: "changed"})
	assert.Equal(t, "Programming", doc.Items()[0].Name())

	got := doc.Items()
	got[1] = models.NewItem(models.ItemOptions{Name: "changed"})
	assert.Equal(t, "Consulting", doc.Items()[1].Name())

	opts := doc.Options()
	opts.Items[0] = models.NewItem(models.ItemOptions{Name: "changed"})
	assert.Equal(t, "Programming", doc.Items()[0].Name())
}

func TestNewDocument_AllowsDuplicateItems(t *testing.T) {
	item := models.NewItem(models.ItemOptions{Name: "Same"})
	doc := models.NewDocument(models.DocumentOptions{Items: []models.Item{item, item}})

	assert.Len(t, doc.Items(), 2)
}

func TestDocument_JSONKeepsKeyOrder(t *testing.T) {
	doc := models.NewDocument(models.DocumentOptions{Number: "1"})

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"number": "1",
		"provider_name": "", "provider_tax_id": "", "provider_tax_id2": "",
		"provider_street": "", "provider_street_number": "", "provider_postcode": "",
		"provider_city": "", "provider_city_part": "", "provider_extra_address_line": "",
		"purchaser_name": "", "purchaser_tax_id": "", "purchaser_tax_id2": "",
		"purchaser_street": "", "purchaser_street_number": "", "purchaser_postcode": "",
		"purchaser_city": "", "purchaser_city_part": "", "purchaser_extra_address_line": "",
		"issue_date": "", "due_date": "",
		"subtotal": "", "tax": "", "tax2": "", "tax3": "", "total": "",
		"bank_account_number": "", "account_details": "", "account_iban": "", "account_swift": "",
		"items": [],
		"note": ""
	}`, string(data))
	assert.Regexp(t, `^\{"number":"1","provider_name":""`, string(data))
	assert.Regexp(t, `"items":\[\],"note":""\}$`, string(data))
}

func TestDocument_JSONRoundTrip(t *testing.T) {
	doc := sampleDocument()

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded models.Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, doc, decoded)
}

func TestDocument_UnmarshalJSONCoercesNumbers(t *testing.T) {
	var doc models.Document
	err := json.Unmarshal([]byte(`{"number": 198900000001, "total": 200.50, "items": [{"name": "A", "quantity": 3}]}`), &doc)
	require.NoError(t, err)

	assert.Equal(t, "198900000001", doc.Number())
	assert.Equal(t, "200.50", doc.Total())
	assert.Equal(t, "3", doc.Items()[0].Quantity())
}

func TestDocument_UnmarshalJSONRejectsBadItems(t *testing.T) {
	var doc models.Document
	err := json.Unmarshal([]byte(`{"number": "1", "items": ["not an item"]}`), &doc)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Equal(t, models.Document{}, doc)
}

func TestDocument_YAMLRoundTrip(t *testing.T) {
	doc := sampleDocument()

	data, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Regexp(t, `^number: "198900000001"\n`, string(data))

	var decoded models.Document
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, doc, decoded)
}

func TestDocument_UnmarshalYAMLCoercesScalars(t *testing.T) {
	var doc models.Document
	err := yaml.Unmarshal([]byte("number: 42\nsubtotal: 1.5\nitems:\n  - name: A\n    quantity: 2\n"), &doc)
	require.NoError(t, err)

	assert.Equal(t, "42", doc.Number())
	assert.Equal(t, "1.5", doc.Subtotal())
	require.Len(t, doc.Items(), 1)
	assert.Equal(t, "2", doc.Items()[0].Quantity())
}

func TestDocument_UnmarshalYAMLRejectsBadItems(t *testing.T) {
	var doc models.Document
	err := yaml.Unmarshal([]byte("items:\n  - just text\n"), &doc)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestDocument_UnmarshalYAMLKeepsScalarText(t *testing.T) {
	input := "number: 0012\n" +
		"provider_postcode: 01234\n" +
		"issue_date: 2024-01-15\n" +
		"total: 200.50\n" +
		"bank_account_number: 123456789012345678901234\n" +
		"items:\n  - name: A\n    price: 0.10\n"

	var doc models.Document
	require.NoError(t, yaml.Unmarshal([]byte(input), &doc))

	assert.Equal(t, "0012", doc.Number())
	assert.Equal(t, "01234", doc.Provider().Postcode)
	assert.Equal(t, "2024-01-15", doc.IssueDate())
	assert.Equal(t, "200.50", doc.Total())
	assert.Equal(t, "123456789012345678901234", doc.BankAccountNumber())
	require.Len(t, doc.Items(), 1)
	assert.Equal(t, "0.10", doc.Items()[0].Price())
}

func TestMappingFromYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:  "scalars stay text",
			input: "a: 1_000\nb: yes\nc: \"quoted\"\n",
			want:  map[string]interface{}{"a": "1_000", "b": "yes", "c": "quoted"},
		},
		{
			name:  "null values",
			input: "a: ~\nb:\nc: \"null\"\n",
			want:  map[string]interface{}{"a": nil, "b": nil, "c": "null"},
		},
		{
			name:  "nested sequence",
			input: "items:\n  - name: A\n  - 7\n",
			want: map[string]interface{}{"items": []interface{}{
				map[string]interface{}{"name": "A"},
				"7",
			}},
		},
		{name: "sequence at top", input: "- a\n", wantErr: true},
		{name: "scalar at top", input: "text\n", wantErr: true},
		{name: "complex key", input: "? [a, b]\n: c\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var node yaml.Node
			require.NoError(t, yaml.Unmarshal([]byte(tt.input), &node))

			got, err := models.MappingFromYAML(&node)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
