package application

import (
	"testing"
)

// TestGetStringParam tests string extraction and its failure modes.
func TestGetStringParam(t *testing.T) {
	args := map[string]interface{}{
		"repository": "website",
		"count":      float64(3),
		"empty":      "",
	}

	value, err := getStringParam(args, "repository", true)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if value != "website" {
		t.Errorf("Expected website, got %s", value)
	}

	if _, err := getStringParam(args, "missing", true); err == nil {
		t.Error("Expected error for missing required parameter")
	}
	if value, err := getStringParam(args, "missing", false); err != nil || value != "" {
		t.Errorf("Expected empty value for missing optional parameter, got %q, %v", value, err)
	}
	if _, err := getStringParam(args, "count", true); err == nil {
		t.Error("Expected error for non-string value")
	}
	if _, err := getStringParam(args, "empty", true); err == nil {
		t.Error("Expected error for empty required value")
	}
}

// TestGetIntParam tests integer extraction from JSON-decoded values.
func TestGetIntParam(t *testing.T) {
	args := map[string]interface{}{
		"float_id": float64(42),
		"int_id":   7,
		"name":     "not a number",
	}

	if value, err := getIntParam(args, "float_id", true); err != nil || value != 42 {
		t.Errorf("Expected 42, got %d, %v", value, err)
	}
	if value, err := getIntParam(args, "int_id", true); err != nil || value != 7 {
		t.Errorf("Expected 7, got %d, %v", value, err)
	}
	if _, err := getIntParam(args, "missing", true); err == nil {
		t.Error("Expected error for missing required parameter")
	}
	if _, err := getIntParam(args, "name", false); err == nil {
		t.Error("Expected error for non-numeric value")
	}
}

// TestGetBoolParam tests boolean extraction with fallback.
func TestGetBoolParam(t *testing.T) {
	args := map[string]interface{}{
		"flag": true,
		"name": "yes",
	}

	if value, err := getBoolParam(args, "flag", false); err != nil || !value {
		t.Errorf("Expected true, got %t, %v", value, err)
	}
	if value, err := getBoolParam(args, "missing", true); err != nil || !value {
		t.Errorf("Expected fallback true, got %t, %v", value, err)
	}
	if _, err := getBoolParam(args, "name", false); err == nil {
		t.Error("Expected error for non-boolean value")
	}
}

// TestGetStringListParam tests list extraction.
func TestGetStringListParam(t *testing.T) {
	args := map[string]interface{}{
		"reviewers": []interface{}{"alice", "bob"},
		"mixed":     []interface{}{"alice", float64(2)},
		"scalar":    "alice",
	}

	list, err := getStringListParam(args, "reviewers")
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if len(list) != 2 || list[0] != "alice" || list[1] != "bob" {
		t.Errorf("Unexpected list: %v", list)
	}

	if list, err := getStringListParam(args, "missing"); err != nil || list != nil {
		t.Errorf("Expected nil for missing parameter, got %v, %v", list, err)
	}
	if _, err := getStringListParam(args, "mixed"); err == nil {
		t.Error("Expected error for a list with non-string items")
	}
	if _, err := getStringListParam(args, "scalar"); err == nil {
		t.Error("Expected error for a non-list value")
	}
}

// TestGetEnumParam tests enum restriction with fallback.
func TestGetEnumParam(t *testing.T) {
	allowed := []string{"OPEN", "MERGED", "DECLINED"}

	if value, err := getEnumParam(map[string]interface{}{"state": "MERGED"}, "state", allowed, "OPEN"); err != nil || value != "MERGED" {
		t.Errorf("Expected MERGED, got %s, %v", value, err)
	}
	if value, err := getEnumParam(map[string]interface{}{}, "state", allowed, "OPEN"); err != nil || value != "OPEN" {
		t.Errorf("Expected fallback OPEN, got %s, %v", value, err)
	}
	if _, err := getEnumParam(map[string]interface{}{"state": "open"}, "state", allowed, "OPEN"); err == nil {
		t.Error("Expected error for a value outside the enum")
	}
}

// TestGetPaginationDefaults tests that absent parameters yield the defaults.
func TestGetPaginationDefaults(t *testing.T) {
	page, pagelen, err := getPagination(map[string]interface{}{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if page != 1 || pagelen != 10 {
		t.Errorf("Expected defaults 1/10, got %d/%d", page, pagelen)
	}
}

// TestGetPaginationBounds tests the boundary values of page and pagelen.
func TestGetPaginationBounds(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		wantErr bool
	}{
		{"page zero", map[string]interface{}{"page": float64(0)}, true},
		{"page negative", map[string]interface{}{"page": float64(-1)}, true},
		{"page one", map[string]interface{}{"page": float64(1)}, false},
		{"pagelen zero", map[string]interface{}{"pagelen": float64(0)}, true},
		{"pagelen one", map[string]interface{}{"pagelen": float64(1)}, false},
		{"pagelen hundred", map[string]interface{}{"pagelen": float64(100)}, false},
		{"pagelen over", map[string]interface{}{"pagelen": float64(101)}, true},
		{"page not a number", map[string]interface{}{"page": "two"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := getPagination(tt.args)
			if tt.wantErr && err == nil {
				t.Error("Expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
