package prefs

// Regions maps market names to the 2-letter codes the remote service
// understands. The empty code selects the default, unqualified market.
var Regions = map[string]string{
	"Argentina":      "AR",
	"Australia":      "AU",
	"Austria":        "AT",
	"Belgium":        "BE",
	"Brazil":         "BR",
	"Canada":         "CA",
	"Chile":          "CL",
	"China":          "CN",
	"Denmark":        "DK",
	"Finland":        "FI",
	"France":         "FR",
	"Germany":        "DE",
	"Hong Kong SAR":  "HK",
	"India":          "IN",
	"Indonesia":      "ID",
	"Italy":          "IT",
	"Japan":          "JP",
	"Korea":          "KR",
	"Malaysia":       "MY",
	"Mexico":         "MX",
	"Netherlands":    "NL",
	"New Zealand":    "NZ",
	"Norway":         "NO",
	"Philippines":    "PH",
	"Poland":         "PL",
	"Portugal":       "PT",
	"Russia":         "RU",
	"Saudi Arabia":   "SA",
	"South Africa":   "ZA",
	"Spain":          "ES",
	"Sweden":         "SE",
	"Switzerland":    "CH",
	"Taiwan":         "TW",
	"Turkey":         "TR",
	"United Kingdom": "GB",
	"United States":  "US",
}
