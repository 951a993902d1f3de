package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Request input validation.

var (
	tenantRx    = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
	assetRx     = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
	userRx      = regexp.MustCompile(`^[a-zA-Z0-9_.@-]{1,128}$`)
	uuidRx      = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)
	categorySet = map[string]bool{
		"watches":      true,
		"cars":         true,
		"handbags":     true,
		"jewelry":      true,
		"art":          true,
		"collectibles": true,
	}
)

// ValidateTenantID validates tenant ID format.
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("tenant ID cannot be empty")
	}
	if !tenantRx.MatchString(tenant) {
		return fmt.Errorf("invalid tenant ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateAssetID validates asset ID format.
func ValidateAssetID(assetID string) error {
	if assetID == "" {
		return fmt.Errorf("asset ID cannot be empty")
	}
	if !assetRx.MatchString(assetID) {
		return fmt.Errorf("invalid asset ID format")
	}
	return nil
}

// ValidateAnalysisID validates analysis ID format (UUID v4).
func ValidateAnalysisID(id string) error {
	if id == "" {
		return fmt.Errorf("analysis ID cannot be empty")
	}
	if !uuidRx.MatchString(strings.ToLower(id)) {
		return fmt.Errorf("invalid analysis ID format")
	}
	return nil
}

// ValidateUserID validates the requesting user identifier.
func ValidateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}
	if !userRx.MatchString(userID) {
		return fmt.Errorf("invalid user ID format")
	}
	return nil
}

// ValidateCategory checks the asset category against the supported set.
func ValidateCategory(category string) error {
	if !categorySet[strings.ToLower(category)] {
		return fmt.Errorf("invalid category: %s (allowed: watches, cars, handbags, jewelry, art, collectibles)", category)
	}
	return nil
}

// SanitizeString strips null bytes and control characters.
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit clamps a pagination limit to sane bounds.
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
