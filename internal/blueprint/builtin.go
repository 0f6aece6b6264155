package blueprint

// Builtins returns the blueprints compiled into the binary. User blueprints
// loaded from disk may shadow these by id.
func Builtins() []Blueprint {
	return []Blueprint{
		{
			ID:          "invoice",
			Description: "Line items, totals and parties from an invoice.",
			Builtin:     true,
			Fields: []Field{
				{Name: "invoice_number", Type: TypeString, Description: "Invoice identifier as printed.", Required: true},
				{Name: "invoice_date", Type: TypeString, Description: "Issue date in ISO 8601 (YYYY-MM-DD)."},
				{Name: "due_date", Type: TypeString, Description: "Payment due date in ISO 8601."},
				{Name: "vendor_name", Type: TypeString, Description: "Name of the issuing party.", Required: true},
				{Name: "customer_name", Type: TypeString, Description: "Name of the billed party."},
				{Name: "currency", Type: TypeString, Description: "ISO 4217 currency code."},
				{Name: "subtotal", Type: TypeNumber, Description: "Amount before tax."},
				{Name: "tax", Type: TypeNumber, Description: "Total tax amount."},
				{Name: "total", Type: TypeNumber, Description: "Grand total including tax.", Required: true},
				{Name: "line_items", Type: TypeArray, Items: TypeString, Description: "One entry per line item: description, quantity, unit price, amount."},
			},
		},
		{
			ID:          "bank-statement",
			Description: "Account details and balances from a bank statement.",
			Builtin:     true,
			Fields: []Field{
				{Name: "account_holder", Type: TypeString, Description: "Name on the account.", Required: true},
				{Name: "account_number", Type: TypeString, Description: "Account number, masked digits kept as printed."},
				{Name: "bank_name", Type: TypeString, Description: "Issuing bank."},
				{Name: "statement_period", Type: TypeString, Description: "Covered period as printed."},
				{Name: "opening_balance", Type: TypeNumber, Description: "Balance at period start."},
				{Name: "closing_balance", Type: TypeNumber, Description: "Balance at period end.", Required: true},
				{Name: "transactions", Type: TypeArray, Items: TypeString, Description: "One entry per transaction: date, description, amount."},
			},
		},
	}
}
