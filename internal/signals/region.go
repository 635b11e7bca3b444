package signals

// RegionUnknown marks languages without a region mapping. Real geocoding is
// a non-goal; this is a coarse language-to-region lookup.
const RegionUnknown = "UNKNOWN"

var languageRegions = map[string]string{
	"en": "US",
	"es": "ES",
	"fr": "FR",
	"de": "DE",
	"pt": "BR",
	"it": "IT",
	"nl": "NL",
	"ru": "RU",
	"ja": "JP",
	"ko": "KR",
	"zh": "CN",
	"ar": "SA",
	"hi": "IN",
}

// InferRegion passes an explicit user location through untouched, otherwise
// maps the detected language to a coarse region.
func InferRegion(userLocation, language string) string {
	if userLocation != "" {
		return userLocation
	}
	if region, ok := languageRegions[language]; ok {
		return region
	}
	return RegionUnknown
}
