// Package models holds the in-memory invoice representation shared by loaders,
// extractors and renderers.
//
// A Document is built once, either from typed options with NewDocument or from
// a decoded key/value mapping with FromStructuredData, and is read-only after
// that. Every field is a display string: amounts and dates are kept exactly as
// they should be printed and are never parsed.
//
// The total is expected to match the subtotal plus taxes and the sum of the
// item amounts, but this is not checked.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Party is the identity and address of the provider or the purchaser.
type Party struct {
	Name             string
	TaxID            string
	TaxID2           string
	Street           string
	StreetNumber     string
	Postcode         string
	City             string
	CityPart         string
	ExtraAddressLine string
}

// DocumentOptions configures a new Document. Every field is optional.
type DocumentOptions struct {
	Number string

	Provider  Party
	Purchaser Party

	IssueDate string
	DueDate   string

	Subtotal string
	Tax      string
	Tax2     string
	Tax3     string
	Total    string

	BankAccountNumber string
	AccountDetails    string
	AccountIBAN       string
	AccountSWIFT      string

	// Items are printed in this order.
	Items []Item

	Note string
}

// Document is an invoice or receipt.
//
// Example:
//
//	doc := models.NewDocument(models.DocumentOptions{
//		Number: "198900000001",
//		Provider: models.Party{
//			Name:   "Business s.r.o.",
//			TaxID:  "56565656",
//			Street: "Rolnicka",
//			City:   "Opava",
//		},
//		Purchaser: models.Party{Name: "Adam"},
//		IssueDate: "19/03/3939",
//		Subtotal:  "$ 150",
//		Tax:       "$ 50",
//		Total:     "$ 200",
//		Items: []models.Item{
//			models.NewItem(models.ItemOptions{Name: "Programming", Amount: "$ 150"}),
//		},
//		Note: "A note at the end.",
//	})
type Document struct {
	fields DocumentOptions
}

func partyKeys(prefix string, party func(*DocumentOptions) *Party) []fieldKey[DocumentOptions] {
	return []fieldKey[DocumentOptions]{
		{prefix + "name", func(o *DocumentOptions) *string { return &party(o).Name }},
		{prefix + "tax_id", func(o *DocumentOptions) *string { return &party(o).TaxID }},
		{prefix + "tax_id2", func(o *DocumentOptions) *string { return &party(o).TaxID2 }},
		{prefix + "street", func(o *DocumentOptions) *string { return &party(o).Street }},
		{prefix + "street_number", func(o *DocumentOptions) *string { return &party(o).StreetNumber }},
		{prefix + "postcode", func(o *DocumentOptions) *string { return &party(o).Postcode }},
		{prefix + "city", func(o *DocumentOptions) *string { return &party(o).City }},
		{prefix + "city_part", func(o *DocumentOptions) *string { return &party(o).CityPart }},
		{prefix + "extra_address_line", func(o *DocumentOptions) *string { return &party(o).ExtraAddressLine }},
	}
}

// documentKeys lists every scalar key. items is handled separately.
var documentKeys = func() []fieldKey[DocumentOptions] {
	keys := []fieldKey[DocumentOptions]{
		{"number", func(o *DocumentOptions) *string { return &o.Number }},
	}
	keys = append(keys, partyKeys("provider_", func(o *DocumentOptions) *Party { return &o.Provider })...)
	keys = append(keys, partyKeys("purchaser_", func(o *DocumentOptions) *Party { return &o.Purchaser })...)
	return append(keys, []fieldKey[DocumentOptions]{
		{"issue_date", func(o *DocumentOptions) *string { return &o.IssueDate }},
		{"due_date", func(o *DocumentOptions) *string { return &o.DueDate }},
		{"subtotal", func(o *DocumentOptions) *string { return &o.Subtotal }},
		{"tax", func(o *DocumentOptions) *string { return &o.Tax }},
		{"tax2", func(o *DocumentOptions) *string { return &o.Tax2 }},
		{"tax3", func(o *DocumentOptions) *string { return &o.Tax3 }},
		{"total", func(o *DocumentOptions) *string { return &o.Total }},
		{"bank_account_number", func(o *DocumentOptions) *string { return &o.BankAccountNumber }},
		{"account_details", func(o *DocumentOptions) *string { return &o.AccountDetails }},
		{"account_iban", func(o *DocumentOptions) *string { return &o.AccountIBAN }},
		{"account_swift", func(o *DocumentOptions) *string { return &o.AccountSWIFT }},
		{"note", func(o *DocumentOptions) *string { return &o.Note }},
	}...)
}()

// NewDocument builds a Document from typed options. The items slice is copied.
func NewDocument(opts DocumentOptions) Document {
	opts.Items = cloneItems(opts.Items)
	return Document{fields: opts}
}

// FromStructuredData builds a Document from a key/value mapping such as a decoded
// JSON or YAML object. Scalar values of any type are coerced to strings and
// missing keys become "". Unknown keys are ignored.
//
// items may be absent or null. When present it must be a sequence whose
// elements are mappings (parsed as items) or Item values; anything else fails
// with ErrInvalidInput.
func FromStructuredData(data map[string]interface{}) (Document, error) {
	const op = "FromStructuredData"

	var opts DocumentOptions
	readFields(documentKeys, data, &opts)

	items, err := itemsFromStructuredData(op, data["items"])
	if err != nil {
		return Document{}, err
	}
	opts.Items = items

	return NewDocument(opts), nil
}

func itemsFromStructuredData(op string, raw interface{}) ([]Item, error) {
	var elems []interface{}
	switch v := raw.(type) {
	case nil:
		return []Item{}, nil
	case []Item:
		return v, nil
	case []interface{}:
		elems = v
	case []map[string]interface{}:
		elems = make([]interface{}, len(v))
		for i := range v {
			elems[i] = v[i]
		}
	default:
		return nil, newInputError(op, -1, fmt.Sprintf("items must be a sequence, got %T", raw))
	}

	items := make([]Item, 0, len(elems))
	for i, elem := range elems {
		switch v := elem.(type) {
		case map[string]interface{}:
			items = append(items, ItemFromStructuredData(v))
		case map[string]string:
			m := make(map[string]interface{}, len(v))
			for k, s := range v {
				m[k] = s
			}
			items = append(items, ItemFromStructuredData(m))
		case Item:
			items = append(items, v)
		case *Item:
			if v == nil {
				return nil, newInputError(op, i, "nil item")
			}
			items = append(items, *v)
		default:
			return nil, newInputError(op, i, fmt.Sprintf("unexpected %T", elem))
		}
	}
	return items, nil
}

// ToStructuredData exports the document as a mapping keyed by the document key
// names. items holds each item's own mapping, in order.
func (d Document) ToStructuredData() map[string]interface{} {
	out := make(map[string]interface{}, len(documentKeys)+1)
	writeFields(documentKeys, &d.fields, out)

	items := make([]map[string]interface{}, len(d.fields.Items))
	for i, item := range d.fields.Items {
		items[i] = item.ToStructuredData()
	}
	out["items"] = items
	return out
}

// Options returns a copy of the values the document was built from.
func (d Document) Options() DocumentOptions {
	opts := d.fields
	opts.Items = cloneItems(opts.Items)
	return opts
}

func (d Document) Number() string            { return d.fields.Number }
func (d Document) Provider() Party           { return d.fields.Provider }
func (d Document) Purchaser() Party          { return d.fields.Purchaser }
func (d Document) IssueDate() string         { return d.fields.IssueDate }
func (d Document) DueDate() string           { return d.fields.DueDate }
func (d Document) Subtotal() string          { return d.fields.Subtotal }
func (d Document) Tax() string               { return d.fields.Tax }
func (d Document) Tax2() string              { return d.fields.Tax2 }
func (d Document) Tax3() string              { return d.fields.Tax3 }
func (d Document) Total() string             { return d.fields.Total }
func (d Document) BankAccountNumber() string { return d.fields.BankAccountNumber }
func (d Document) AccountDetails() string    { return d.fields.AccountDetails }
func (d Document) AccountIBAN() string       { return d.fields.AccountIBAN }
func (d Document) AccountSWIFT() string      { return d.fields.AccountSWIFT }
func (d Document) Note() string              { return d.fields.Note }

// Items returns a copy of the document's items.
func (d Document) Items() []Item { return cloneItems(d.fields.Items) }

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// documentWire fixes the key order used by the JSON and YAML encoders.
type documentWire struct {
	Number                    string `json:"number" yaml:"number"`
	ProviderName              string `json:"provider_name" yaml:"provider_name"`
	ProviderTaxID             string `json:"provider_tax_id" yaml:"provider_tax_id"`
	ProviderTaxID2            string `json:"provider_tax_id2" yaml:"provider_tax_id2"`
	ProviderStreet            string `json:"provider_street" yaml:"provider_street"`
	ProviderStreetNumber      string `json:"provider_street_number" yaml:"provider_street_number"`
	ProviderPostcode          string `json:"provider_postcode" yaml:"provider_postcode"`
	ProviderCity              string `json:"provider_city" yaml:"provider_city"`
	ProviderCityPart          string `json:"provider_city_part" yaml:"provider_city_part"`
	ProviderExtraAddressLine  string `json:"provider_extra_address_line" yaml:"provider_extra_address_line"`
	PurchaserName             string `json:"purchaser_name" yaml:"purchaser_name"`
	PurchaserTaxID            string `json:"purchaser_tax_id" yaml:"purchaser_tax_id"`
	PurchaserTaxID2           string `json:"purchaser_tax_id2" yaml:"purchaser_tax_id2"`
	PurchaserStreet           string `json:"purchaser_street" yaml:"purchaser_street"`
	PurchaserStreetNumber     string `json:"purchaser_street_number" yaml:"purchaser_street_number"`
	PurchaserPostcode         string `json:"purchaser_postcode" yaml:"purchaser_postcode"`
	PurchaserCity             string `json:"purchaser_city" yaml:"purchaser_city"`
	PurchaserCityPart         string `json:"purchaser_city_part" yaml:"purchaser_city_part"`
	PurchaserExtraAddressLine string `json:"purchaser_extra_address_line" yaml:"purchaser_extra_address_line"`
	IssueDate                 string `json:"issue_date" yaml:"issue_date"`
	DueDate                   string `json:"due_date" yaml:"due_date"`
	Subtotal                  string `json:"subtotal" yaml:"subtotal"`
	Tax                       string `json:"tax" yaml:"tax"`
	Tax2                      string `json:"tax2" yaml:"tax2"`
	Tax3                      string `json:"tax3" yaml:"tax3"`
	Total                     string `json:"total" yaml:"total"`
	BankAccountNumber         string `json:"bank_account_number" yaml:"bank_account_number"`
	AccountDetails            string `json:"account_details" yaml:"account_details"`
	AccountIBAN               string `json:"account_iban" yaml:"account_iban"`
	AccountSWIFT              string `json:"account_swift" yaml:"account_swift"`
	Items                     []Item `json:"items" yaml:"items"`
	Note                      string `json:"note" yaml:"note"`
}

func (d Document) wire() documentWire {
	f := d.fields
	return documentWire{
		Number:                    f.Number,
		ProviderName:              f.Provider.Name,
		ProviderTaxID:             f.Provider.TaxID,
		ProviderTaxID2:            f.Provider.TaxID2,
		ProviderStreet:            f.Provider.Street,
		ProviderStreetNumber:      f.Provider.StreetNumber,
		ProviderPostcode:          f.Provider.Postcode,
		ProviderCity:              f.Provider.City,
		ProviderCityPart:          f.Provider.CityPart,
		ProviderExtraAddressLine:  f.Provider.ExtraAddressLine,
		PurchaserName:             f.Purchaser.Name,
		PurchaserTaxID:            f.Purchaser.TaxID,
		PurchaserTaxID2:           f.Purchaser.TaxID2,
		PurchaserStreet:           f.Purchaser.Street,
		PurchaserStreetNumber:     f.Purchaser.StreetNumber,
		PurchaserPostcode:         f.Purchaser.Postcode,
		PurchaserCity:             f.Purchaser.City,
		PurchaserCityPart:         f.Purchaser.CityPart,
		PurchaserExtraAddressLine: f.Purchaser.ExtraAddressLine,
		IssueDate:                 f.IssueDate,
		DueDate:                   f.DueDate,
		Subtotal:                  f.Subtotal,
		Tax:                       f.Tax,
		Tax2:                      f.Tax2,
		Tax3:                      f.Tax3,
		Total:                     f.Total,
		BankAccountNumber:         f.BankAccountNumber,
		AccountDetails:            f.AccountDetails,
		AccountIBAN:               f.AccountIBAN,
		AccountSWIFT:              f.AccountSWIFT,
		Items:                     cloneItems(f.Items),
		Note:                      f.Note,
	}
}

// MarshalJSON implements json.Marshaler. Keys keep the document key order.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.wire())
}

// UnmarshalJSON implements json.Unmarshaler through FromStructuredData.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return &InputError{Op: "UnmarshalJSON", Index: -1, Err: ErrInvalidInput, Details: err.Error()}
	}
	doc, err := FromStructuredData(raw)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Document) MarshalYAML() (interface{}, error) {
	return d.wire(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler through FromStructuredData.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	raw, err := MappingFromYAML(value)
	if err != nil {
		return &InputError{Op: "UnmarshalYAML", Index: -1, Err: ErrInvalidInput, Details: err.Error()}
	}
	doc, err := FromStructuredData(raw)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}
