package models

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// ItemOptions configures a new Item. Fields left out stay empty.
type ItemOptions struct {
	Name      string // Line title
	Breakdown string // Optional detail printed under the name
	Variable  string // Free column (hours, product code, ...)
	Quantity  string
	Unit      string
	Price     string // Unit price as printed
	Tax       string
	Tax2      string
	Tax3      string
	Amount    string // Line total as printed
}

// Item is a single invoice line. It is read-only once built.
type Item struct {
	fields ItemOptions
}

// itemWire fixes the key order used by the JSON and YAML encoders.
type itemWire struct {
	Name      string `json:"name" yaml:"name"`
	Breakdown string `json:"breakdown" yaml:"breakdown"`
	Variable  string `json:"variable" yaml:"variable"`
	Quantity  string `json:"quantity" yaml:"quantity"`
	Unit      string `json:"unit" yaml:"unit"`
	Price     string `json:"price" yaml:"price"`
	Tax       string `json:"tax" yaml:"tax"`
	Tax2      string `json:"tax2" yaml:"tax2"`
	Tax3      string `json:"tax3" yaml:"tax3"`
	Amount    string `json:"amount" yaml:"amount"`
}

var itemKeys = []fieldKey[ItemOptions]{
	{"name", func(o *ItemOptions) *string { return &o.Name }},
	{"breakdown", func(o *ItemOptions) *string { return &o.Breakdown }},
	{"variable", func(o *ItemOptions) *string { return &o.Variable }},
	{"quantity", func(o *ItemOptions) *string { return &o.Quantity }},
	{"unit", func(o *ItemOptions) *string { return &o.Unit }},
	{"price", func(o *ItemOptions) *string { return &o.Price }},
	{"tax", func(o *ItemOptions) *string { return &o.Tax }},
	{"tax2", func(o *ItemOptions) *string { return &o.Tax2 }},
	{"tax3", func(o *ItemOptions) *string { return &o.Tax3 }},
	{"amount", func(o *ItemOptions) *string { return &o.Amount }},
}

// NewItem builds an Item from typed options.
func NewItem(opts ItemOptions) Item {
	return Item{fields: opts}
}

// ItemFromStructuredData builds an Item from a key/value mapping such as a decoded
// JSON object. Values of any type are coerced to strings, missing keys become ""
// and unknown keys are ignored.
func ItemFromStructuredData(data map[string]interface{}) Item {
	var opts ItemOptions
	readFields(itemKeys, data, &opts)
	return NewItem(opts)
}

// ToStructuredData exports the item as a mapping keyed by the item key names.
func (i Item) ToStructuredData() map[string]interface{} {
	out := make(map[string]interface{}, len(itemKeys))
	writeFields(itemKeys, &i.fields, out)
	return out
}

// Options returns the values the item was built from.
func (i Item) Options() ItemOptions { return i.fields }

func (i Item) Name() string      { return i.fields.Name }
func (i Item) Breakdown() string { return i.fields.Breakdown }
func (i Item) Variable() string  { return i.fields.Variable }
func (i Item) Quantity() string  { return i.fields.Quantity }
func (i Item) Unit() string      { return i.fields.Unit }
func (i Item) Price() string     { return i.fields.Price }
func (i Item) Tax() string       { return i.fields.Tax }
func (i Item) Tax2() string      { return i.fields.Tax2 }
func (i Item) Tax3() string      { return i.fields.Tax3 }
func (i Item) Amount() string    { return i.fields.Amount }

// MarshalJSON implements json.Marshaler.
func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemWire(i.fields))
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return &InputError{Op: "UnmarshalJSON", Index: -1, Err: ErrInvalidInput, Details: err.Error()}
	}
	*i = ItemFromStructuredData(raw)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (i Item) MarshalYAML() (interface{}, error) {
	return itemWire(i.fields), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (i *Item) UnmarshalYAML(value *yaml.Node) error {
	raw, err := MappingFromYAML(value)
	if err != nil {
		return &InputError{Op: "UnmarshalYAML", Index: -1, Err: ErrInvalidInput, Details: err.Error()}
	}
	*i = ItemFromStructuredData(raw)
	return nil
}
