package schema

// Default schema tables for the shipping document set. Field inventories
// follow the annotation ground truth we collect: flat field-name to value
// maps, one identifying number per document plus dates, parties, amounts
// and routing details.

var currencies = []string{"USD", "EUR", "GBP", "CNY", "JPY", "KRW"}

const (
	refPattern       = `^[A-Za-z0-9][A-Za-z0-9/_-]*$`
	containerPattern = `^[A-Z]{4}[0-9]{7}$` // ISO 6346 container number
	hsCodePattern    = `^[0-9]{6,10}$`
)

func defaultDefinitions() map[DocumentType][]FieldSpec {
	return map[DocumentType][]FieldSpec{
		Invoice: {
			{Name: "invoice_number", Kind: KindIdentifier, Required: true,
				Constraint: Constraint{Kind: ConstraintPattern, Pattern: refPattern}},
			{Name: "invoice_date", Kind: KindDate},
			{Name: "currency", Kind: KindEnum,
				Constraint: Constraint{Kind: ConstraintEnum, Enum: currencies}},
			{Name: "seller_name", Kind: KindString},
			{Name: "buyer_name", Kind: KindString},
			{Name: "subtotal", Kind: KindNumber,
				Constraint: Constraint{Kind: ConstraintRange, Min: 0, Max: 1e12}},
			{Name: "tax", Kind: KindNumber,
				Constraint: Constraint{Kind: ConstraintRange, Min: 0, Max: 1e12}},
			{Name: "total", Kind: KindNumber, Required: true,
				Constraint: Constraint{Kind: ConstraintRange, Min: 0, Max: 1e12}},
			{Name: "payment_terms", Kind: KindString},
			{Name: "due_date", Kind: KindDate},
		},
		PurchaseOrder: {
			{Name: "po_number", Kind: KindIdentifier, Required: true,
				Constraint: Constraint{Kind: ConstraintPattern, Pattern: refPattern}},
			{Name: "po_date", Kind: KindDate},
			{Name: "currency", Kind: KindEnum,
				Constraint: Constraint{Kind: ConstraintEnum, Enum: currencies}},
			{Name: "buyer_name", Kind: KindString},
			{Name: "supplier_name", Kind: KindString},
			{Name: "total", Kind: KindNumber,
				Constraint: Constraint{Kind: ConstraintRange, Min: 0, Max: 1e12}},
			{Name: "delivery_date", Kind: KindDate},
			{Name: "delivery_address", Kind: KindString},
			{Name: "payment_terms", Kind: KindString},
		},
		ShippingOrder: {
			{Name: "order_number", Kind: KindIdentifier, Required: true,
				Constraint: Constraint{Kind: ConstraintPattern, Pattern: refPattern}},
			{Name: "ship_date", Kind: KindDate},
			{Name: "shipper_name", Kind: KindString},
			{Name: "consignee_name", Kind: KindString},
			{Name: "total_weight", Kind: KindNumber,
				Constraint: Constraint{Kind: ConstraintRange, Min: 0, Max: 1e9}},
			{Name: "weight_unit", Kind: KindEnum,
				Constraint: Constraint{Kind: ConstraintEnum, Enum: []string{"kg", "lb", "t"}}},
			{Name: "origin", Kind: KindString},
			{Name: "destination", Kind: KindString},
			{Name: "carrier", Kind: KindString},
			{Name: "tracking_number", Kind: KindIdentifier,
				Constraint: Constraint{Kind: ConstraintPattern, Pattern: refPattern}},
			{Name: "vessel_name", Kind: KindString},
			{Name: "container_number", Kind: KindIdentifier,
				Constraint: Constraint{Kind: ConstraintPattern, Pattern: containerPattern}},
		},
		BillOfLading: {
			{Name: "bol_number", Kind: KindIdentifier, Required: true,
				Constraint: Constraint{Kind: ConstraintPattern, Pattern: refPattern}},
			{Name: "issue_date", Kind: KindDate},
			{Name: "shipper_name", Kind: KindString},
			{Name: "consignee_name", Kind: KindString},
			{Name: "notify_party", Kind: KindString},
			{Name: "vessel_name", Kind: KindString},
			{Name: "voyage_number", Kind: KindIdentifier,
				Constraint: Constraint{Kind: ConstraintPattern, Pattern: refPattern}},
			{Name: "port_of_loading", Kind: KindString},
			{Name: "port_of_discharge", Kind: KindString},
			{Name: "container_number", Kind: KindIdentifier,
				Constraint: Constraint{Kind: ConstraintPattern, Pattern: containerPattern}},
			{Name: "freight_terms", Kind: KindEnum,
				Constraint: Constraint{Kind: ConstraintEnum, Enum: []string{"prepaid", "collect"}}},
		},
		PackingList: {
			{Name: "packing_list_number", Kind: KindIdentifier, Required: true,
				Constraint: Constraint{Kind: ConstraintPattern, Pattern: refPattern}},
			{Name: "pack_date", Kind: KindDate},
			{Name: "total_packages", Kind: KindNumber,
				Constraint: Constraint{Kind: ConstraintRange, Min: 0, Max: 1e6}},
			{Name: "total_net_weight", Kind: KindNumber,
				Constraint: Constraint{Kind: ConstraintRange, Min: 0, Max: 1e9}},
			{Name: "total_gross_weight", Kind: KindNumber,
				Constraint: Constraint{Kind: ConstraintRange, Min: 0, Max: 1e9}},
			{Name: "weight_unit", Kind: KindEnum,
				Constraint: Constraint{Kind: ConstraintEnum, Enum: []string{"kg", "lb"}}},
			{Name: "marks_and_numbers", Kind: KindString},
		},
		CommercialInvoice: {
			{Name: "invoice_number", Kind: KindIdentifier, Required: true,
				Constraint: Constraint{Kind: ConstraintPattern, Pattern: refPattern}},
			{Name: "invoice_date", Kind: KindDate},
			{Name: "currency", Kind: KindEnum,
				Constraint: Constraint{Kind: ConstraintEnum, Enum: currencies}},
			{Name: "exporter_name", Kind: KindString},
			{Name: "importer_name", Kind: KindString},
			{Name: "country_of_origin", Kind: KindString},
			{Name: "total_value", Kind: KindNumber,
				Constraint: Constraint{Kind: ConstraintRange, Min: 0, Max: 1e12}},
			{Name: "hs_code", Kind: KindIdentifier,
				Constraint: Constraint{Kind: ConstraintPattern, Pattern: hsCodePattern}},
			{Name: "incoterms", Kind: KindEnum,
				Constraint: Constraint{Kind: ConstraintEnum, Enum: []string{"EXW", "FCA", "FOB", "CFR", "CIF", "DAP", "DDP"}}},
		},
	}
}

// Default returns the built-in shipping document registry.
func Default() *Registry {
	r, err := NewRegistry(defaultDefinitions())
	if err != nil {
		// The built-in tables are covered by tests; a failure here is a
		// programming error.
		panic(err)
	}
	return r
}
