package valyu

import (
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	domainRe  = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?)*$`)
	datasetRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+/[a-zA-Z0-9_-]+$`)
)

// supportedCountryCodes is the server's accepted set of 2-letter ISO codes,
// plus "ALL".
var supportedCountryCodes = map[string]struct{}{
	"ALL": {}, "AR": {}, "AU": {}, "AT": {}, "BE": {}, "BR": {}, "CA": {},
	"CL": {}, "DK": {}, "FI": {}, "FR": {}, "DE": {}, "HK": {}, "IN": {},
	"ID": {}, "IT": {}, "JP": {}, "KR": {}, "MY": {}, "MX": {}, "NL": {},
	"NZ": {}, "NO": {}, "CN": {}, "PL": {}, "PT": {}, "PH": {}, "RU": {},
	"SA": {}, "ZA": {}, "ES": {}, "SE": {}, "CH": {}, "TW": {}, "TR": {},
	"GB": {}, "US": {},
}

// isValidDomain reports whether s is a bare domain name like "example.com".
func isValidDomain(s string) bool {
	return len(s) <= 253 && domainRe.MatchString(s)
}

// isValidHTTPURL reports whether s is an http(s) URL with a host.
func isValidHTTPURL(s string) bool {
	parsed, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// isValidDatasetName reports whether s follows the provider/dataset
// pattern, e.g. "valyu/valyu-arxiv".
func isValidDatasetName(s string) bool {
	return datasetRe.MatchString(s)
}

// isValidSource accepts any of the three source formats the API
// recognizes: a domain ("example.com"), an http(s) URL with optional path,
// or a dataset name ("provider/dataset-name").
func isValidSource(s string) bool {
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return isValidHTTPURL(s)
	}
	if strings.Count(s, "/") == 1 {
		return isValidDatasetName(s)
	}
	if strings.Contains(s, ".") {
		return isValidDomain(s)
	}
	return false
}

// invalidSources returns the entries of sources that fail format
// validation.
func invalidSources(sources []string) []string {
	var bad []string
	for _, s := range sources {
		if !isValidSource(s) {
			bad = append(bad, s)
		}
	}
	return bad
}

func isSupportedCountryCode(code string) bool {
	_, ok := supportedCountryCodes[code]
	return ok
}

// newValidator builds the validator instance used for wire request
// structs, with the custom tags the request types rely on.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report wire names ("max_num_results"), not Go field names, so
	// validator-derived and hand-rolled ValidationErrors agree.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("source_format", func(fl validator.FieldLevel) bool {
		return isValidSource(fl.Field().String())
	})
	_ = v.RegisterValidation("http_url", func(fl validator.FieldLevel) bool {
		return isValidHTTPURL(fl.Field().String())
	})
	_ = v.RegisterValidation("country_code", func(fl validator.FieldLevel) bool {
		return isSupportedCountryCode(fl.Field().String())
	})
	return v
}

// validateDateRange checks YYYY-MM-DD shape and ordering for an optional
// date window. The per-field shape is also enforced by struct tags; this
// adds the cross-field ordering rule.
func validateDateRange(startDate, endDate string) error {
	var start, end time.Time
	var err error
	if startDate != "" {
		if start, err = time.Parse("2006-01-02", startDate); err != nil {
			return newValidationError("start_date", "must be YYYY-MM-DD, got %q", startDate)
		}
	}
	if endDate != "" {
		if end, err = time.Parse("2006-01-02", endDate); err != nil {
			return newValidationError("end_date", "must be YYYY-MM-DD, got %q", endDate)
		}
	}
	if startDate != "" && endDate != "" && start.After(end) {
		return newValidationError("start_date", "%s is after end_date %s", startDate, endDate)
	}
	return nil
}

func normalizeCountryCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
