package gwas

import "strings"

// ValidateEFOID checks that id looks like an EFO trait identifier
// (EFO_ followed by digits, e.g. "EFO_0000305").
func ValidateEFOID(id string) error {
	rest, ok := strings.CutPrefix(id, "EFO_")
	if !ok || rest == "" {
		return &ValidationError{Param: "efo_id", Message: "must be in format EFO_XXXXXXX"}
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return &ValidationError{Param: "efo_id", Message: "must be in format EFO_XXXXXXX where X is a digit"}
		}
	}
	return nil
}

// RequireParam checks that a required identifier parameter is non-empty.
func RequireParam(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Param: name, Message: "required parameter is missing or empty"}
	}
	return nil
}
