package application

import (
	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/domain"
)

// Pagination defaults and bounds, applied uniformly to every list operation.
const (
	defaultPage    = 1
	defaultPagelen = 10
	maxPagelen     = 100
)

// getStringParam extracts a string parameter from the arguments map.
// Returns a ValidationError if the parameter is required but missing, or
// present but not a string.
func getStringParam(args map[string]interface{}, name string, required bool) (string, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return "", domain.NewValidationError(name, "missing required parameter")
		}
		return "", nil
	}

	strValue, ok := value.(string)
	if !ok {
		return "", domain.NewValidationError(name, "must be a string")
	}
	if required && strValue == "" {
		return "", domain.NewValidationError(name, "must not be empty")
	}

	return strValue, nil
}

// getIntParam extracts an integer parameter from the arguments map.
// JSON numbers arrive as float64; plain ints are accepted for tests.
func getIntParam(args map[string]interface{}, name string, required bool) (int, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return 0, domain.NewValidationError(name, "missing required parameter")
		}
		return 0, nil
	}

	switch v := value.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, domain.NewValidationError(name, "must be an integer")
	}
}

// getBoolParam extracts a boolean parameter from the arguments map.
func getBoolParam(args map[string]interface{}, name string, fallback bool) (bool, error) {
	value, exists := args[name]
	if !exists {
		return fallback, nil
	}

	boolValue, ok := value.(bool)
	if !ok {
		return false, domain.NewValidationError(name, "must be a boolean")
	}

	return boolValue, nil
}

// getStringListParam extracts a list-of-strings parameter.
func getStringListParam(args map[string]interface{}, name string) ([]string, error) {
	value, exists := args[name]
	if !exists {
		return nil, nil
	}

	list, ok := value.([]interface{})
	if !ok {
		return nil, domain.NewValidationError(name, "must be an array of strings")
	}

	result := make([]string, 0, len(list))
	for _, item := range list {
		str, ok := item.(string)
		if !ok {
			return nil, domain.NewValidationError(name, "must be an array of strings")
		}
		result = append(result, str)
	}

	return result, nil
}

// getEnumParam extracts a string parameter restricted to an allowed set,
// falling back to a default when absent.
func getEnumParam(args map[string]interface{}, name string, allowed []string, fallback string) (string, error) {
	value, err := getStringParam(args, name, false)
	if err != nil {
		return "", err
	}
	if value == "" {
		return fallback, nil
	}

	for _, candidate := range allowed {
		if value == candidate {
			return value, nil
		}
	}

	return "", domain.NewValidationError(name, "must be one of %v", allowed)
}

// getPagination extracts and bounds-checks the page and pagelen parameters.
// Rejection happens here, before any remote call is issued.
func getPagination(args map[string]interface{}) (page, pagelen int, err error) {
	page, err = getIntParam(args, "page", false)
	if err != nil {
		return 0, 0, err
	}
	if _, exists := args["page"]; !exists {
		page = defaultPage
	}
	if page < 1 {
		return 0, 0, domain.NewValidationError("page", "must be at least 1")
	}

	pagelen, err = getIntParam(args, "pagelen", false)
	if err != nil {
		return 0, 0, err
	}
	if _, exists := args["pagelen"]; !exists {
		pagelen = defaultPagelen
	}
	if pagelen < 1 || pagelen > maxPagelen {
		return 0, 0, domain.NewValidationError("pagelen", "must be between 1 and %d", maxPagelen)
	}

	return page, pagelen, nil
}
