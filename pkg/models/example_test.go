package models_test

import (
	"encoding/json"
	"errors"
	"fmt"

	"invoiceprinter/pkg/models"
)

// Example builds a document from decoded JSON and exports it again.
func Example() {
	var data map[string]interface{}
	_ = json.Unmarshal([]byte(`{
		"number": "198900000001",
		"provider_name": "Business s.r.o.",
		"total": "$ 200",
		"items": [{"name": "Programming", "quantity": 10, "amount": "$ 200"}]
	}`), &data)

	doc, err := models.FromStructuredData(data)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(doc.Number(), doc.Provider().Name, doc.Total())
	for _, item := range doc.Items() {
		fmt.Printf("%s x%s = %s\n", item.Name(), item.Quantity(), item.Amount())
	}
	fmt.Printf("purchaser: %q\n", doc.Purchaser().Name)
	// Output:
	// 198900000001 Business s.r.o. $ 200
	// Programming x10 = $ 200
	// purchaser: ""
}

// Example_invalidItems shows the error returned for items that are not items.
func Example_invalidItems() {
	_, err := models.FromStructuredData(map[string]interface{}{
		"items": []interface{}{"not an item"},
	})
	fmt.Println(errors.Is(err, models.ErrInvalidInput))
	// Output:
	// true
}
