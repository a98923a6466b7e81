package rates

var defaultCurrencies = []string{
	"USD",
	"EUR",
	"GBP",
	"AED",
	"TRY",
	"CAD",
	"AUD",
	"CHF",
	"CNY",
	"JPY",
	"KRW",
	"SAR",
}

var currencyNames = map[string]string{
	"USD": "US Dollar",
	"EUR": "Euro",
	"GBP": "British Pound",
	"AED": "UAE Dirham",
	"TRY": "Turkish Lira",
	"CAD": "Canadian Dollar",
	"AUD": "Australian Dollar",
	"CHF": "Swiss Franc",
	"CNY": "Chinese Yuan",
	"JPY": "Japanese Yen",
	"KRW": "South Korean Won",
	"SAR": "Saudi Riyal",
	"NOK": "Norwegian Krone",
	"SEK": "Swedish Krona",
	"DKK": "Danish Krone",
	"QAR": "Qatari Riyal",
	"OMR": "Omani Rial",
	"KWD": "Kuwaiti Dinar",
	"INR": "Indian Rupee",
	"PKR": "Pakistani Rupee",
	"RUB": "Russian Ruble",
}

func currencyName(code string) string {
	if name, ok := currencyNames[code]; ok {
		return name
	}
	return code
}
