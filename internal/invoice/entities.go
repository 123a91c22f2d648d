package invoice

import (
	"regexp"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"invoiceprinter/pkg/models"
)

// Invoice number patterns tried against the OCR text when no invoice_id entity
// was recognized.
var invoiceNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:invoice|inv|rechnung|faktura)[\s\-:\.]*(?:no|nr|number|č|c)?[\s\-:\.#]*(\d[\d\-/\.]{3,19})`),
	regexp.MustCompile(`(?i)(?:^|\s)(?:no|nr|number)[\s\-:\.#]*(\d{6,20})`),
}

// extractDocument converts Document AI entities to a Document.
func (p *DocumentAIProcessor) extractDocument(doc *documentaipb.Document) (models.Document, map[string]float32, error) {
	var opts models.DocumentOptions
	confidence := make(map[string]float32)
	var taxes []string

	for _, entity := range doc.GetEntities() {
		entityType := entity.GetType()
		value := strings.TrimSpace(entity.GetMentionText())
		if conf, seen := confidence[entityType]; !seen || entity.GetConfidence() < conf {
			// Repeated entities report their weakest score
			confidence[entityType] = entity.GetConfidence()
		}

		p.log.Debug().
			Str("entity_type", entityType).
			Str("value", value).
			Float32("confidence", entity.GetConfidence()).
			Msg("Processing Document AI entity")

		switch entityType {
		case "invoice_id":
			opts.Number = value
		case "invoice_date":
			opts.IssueDate = value
		case "due_date":
			opts.DueDate = value
		case "supplier_name":
			opts.Provider.Name = value
		case "supplier_tax_id":
			opts.Provider.TaxID = value
		case "supplier_registration":
			opts.Provider.TaxID2 = value
		case "supplier_address":
			applyAddress(&opts.Provider, entity)
		case "supplier_iban":
			opts.AccountIBAN = value
		case "receiver_name":
			opts.Purchaser.Name = value
		case "receiver_tax_id":
			opts.Purchaser.TaxID = value
		case "receiver_address":
			applyAddress(&opts.Purchaser, entity)
		case "net_amount":
			opts.Subtotal = value
		case "total_tax_amount":
			taxes = append(taxes, value)
		case "total_amount":
			opts.Total = value
		case "payment_terms":
			opts.AccountDetails = value
		case "line_item":
			opts.Items = append(opts.Items, lineItem(entity))
		}
	}

	p.applyTaxes(&opts, taxes)

	if opts.Number == "" {
		if number := invoiceNumberFromText(doc.GetText()); number != "" {
			opts.Number = number
			confidence["invoice_id_fallback"] = 0.6
			p.log.Info().
				Str("fallback_number", number).
				Msg("Invoice number extracted from OCR text")
		}
	}

	if len(confidence) == 0 && opts.Number == "" {
		return models.Document{}, nil, ErrNoEntities
	}

	result := models.NewDocument(opts)
	p.log.Info().
		Str("number", result.Number()).
		Str("provider", result.Provider().Name).
		Str("total", result.Total()).
		Int("items", len(opts.Items)).
		Msg("Document AI extraction completed")

	return result, confidence, nil
}

// applyTaxes fills tax, tax2 and tax3 in the order the tax totals appear.
func (p *DocumentAIProcessor) applyTaxes(opts *models.DocumentOptions, taxes []string) {
	slots := []*string{&opts.Tax, &opts.Tax2, &opts.Tax3}
	for i, tax := range taxes {
		if i >= len(slots) {
			p.log.Warn().
				Int("tax_amounts", len(taxes)).
				Msg("More tax amounts than tax fields, extra amounts dropped")
			break
		}
		*slots[i] = tax
	}
}

// applyAddress uses the normalized postal address when Document AI provides
// one and falls back to the raw address text as the street line.
func applyAddress(party *models.Party, entity *documentaipb.Document_Entity) {
	addr := entity.GetNormalizedValue().GetAddressValue()
	if addr == nil {
		party.Street = strings.Join(strings.Fields(entity.GetMentionText()), " ")
		return
	}

	lines := addr.GetAddressLines()
	if len(lines) > 0 {
		party.Street = lines[0]
	}
	if len(lines) > 1 {
		party.ExtraAddressLine = strings.Join(lines[1:], ", ")
	}
	party.Postcode = addr.GetPostalCode()
	party.City = addr.GetLocality()
	party.CityPart = addr.GetSublocality()
	if party.ExtraAddressLine == "" {
		party.ExtraAddressLine = addr.GetRegionCode()
	}
}

// lineItem maps a line_item entity and its properties to an Item.
func lineItem(entity *documentaipb.Document_Entity) models.Item {
	var opts models.ItemOptions
	for _, prop := range entity.GetProperties() {
		value := strings.TrimSpace(prop.GetMentionText())
		switch prop.GetType() {
		case "line_item/description":
			opts.Name = value
		case "line_item/product_code":
			opts.Variable = value
		case "line_item/quantity":
			opts.Quantity = value
		case "line_item/unit":
			opts.Unit = value
		case "line_item/unit_price":
			opts.Price = value
		case "line_item/amount":
			opts.Amount = value
		}
	}
	if opts.Name == "" && len(entity.GetProperties()) == 0 {
		opts.Name = strings.TrimSpace(entity.GetMentionText())
	}
	return models.NewItem(opts)
}

// invoiceNumberFromText searches OCR text for an invoice number.
func invoiceNumberFromText(text string) string {
	for _, re := range invoiceNumberPatterns {
		if matches := re.FindStringSubmatch(text); len(matches) > 1 {
			return strings.Trim(matches[1], "-/.")
		}
	}
	return ""
}
