package catalog

import (
	"strings"
	"testing"

	"github.com/Waito3007/aRefactor/internal/core/failure"
)

func int64p(v int64) *int64 { return &v }
func strp(s string) *string { return &s }

func assertFields(t *testing.T, f *failure.Failure, want []string) {
	t.Helper()
	if len(want) == 0 {
		if f != nil {
			t.Fatalf("Validate() = %v, want nil", f)
		}
		return
	}
	if f == nil {
		t.Fatalf("Validate() = nil, want violations on %v", want)
	}
	if f.Kind != failure.KindValidation {
		t.Fatalf("Kind = %s, want %s", f.Kind, failure.KindValidation)
	}
	if len(f.Fields) != len(want) {
		t.Errorf("got violations on %d fields, want %d (%v)", len(f.Fields), len(want), f.Fields)
	}
	for _, field := range want {
		if len(f.Fields[field]) == 0 {
			t.Errorf("no violation recorded for field %q", field)
		}
	}
}

func TestCreateProductValidation(t *testing.T) {
	tests := []struct {
		name       string
		req        CreateProductRequest
		wantFields []string
	}{
		{
			name: "valid minimal",
			req:  CreateProductRequest{SKU: "ABC-001", Name: "Widget", PriceCents: int64p(1999)},
		},
		{
			name: "valid full",
			req: CreateProductRequest{
				SKU:         "abc_001",
				Name:        "Widget",
				Description: "A widget.",
				PriceCents:  int64p(0),
				CategoryID:  strp("7d5ef268-91a6-4e29-a5f2-0c48dca9b1aa"),
				Status:      "active",
			},
		},
		{
			name:       "empty request",
			req:        CreateProductRequest{},
			wantFields: []string{"sku", "name", "priceCents"},
		},
		{
			name: "sku too short",
			req: CreateProductRequest{
				SKU: "ab", Name: "Widget", PriceCents: int64p(100),
			},
			wantFields: []string{"sku"},
		},
		{
			name: "sku illegal characters",
			req: CreateProductRequest{
				SKU: "ABC 001!", Name: "Widget", PriceCents: int64p(100),
			},
			wantFields: []string{"sku"},
		},
		{
			name: "name too long",
			req: CreateProductRequest{
				SKU: "ABC-001", Name: strings.Repeat("x", 201), PriceCents: int64p(100),
			},
			wantFields: []string{"name"},
		},
		{
			name: "negative price",
			req: CreateProductRequest{
				SKU: "ABC-001", Name: "Widget", PriceCents: int64p(-1),
			},
			wantFields: []string{"priceCents"},
		},
		{
			name: "unknown status",
			req: CreateProductRequest{
				SKU: "ABC-001", Name: "Widget", PriceCents: int64p(100), Status: "archived",
			},
			wantFields: []string{"status"},
		},
		{
			name: "description too long",
			req: CreateProductRequest{
				SKU: "ABC-001", Name: "Widget", PriceCents: int64p(100),
				Description: strings.Repeat("x", 2001),
			},
			wantFields: []string{"description"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertFields(t, tt.req.Validate(), tt.wantFields)
		})
	}
}

// Every broken rule must surface in one batched failure, not just the first.
func TestValidationBatchesEveryViolation(t *testing.T) {
	req := CreateProductRequest{
		SKU:        "!",
		Name:       "",
		PriceCents: int64p(-100),
		Status:     "retired",
		CategoryID: strp("not-a-uuid"),
	}

	f := req.Validate()
	if f == nil {
		t.Fatal("Validate() = nil, want a batched validation failure")
	}
	want := []string{"sku", "name", "priceCents", "status", "categoryId"}
	assertFields(t, f, want)
}

func TestUpdateProductValidation(t *testing.T) {
	tests := []struct {
		name       string
		req        UpdateProductRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  UpdateProductRequest{Name: "Widget", PriceCents: int64p(100)},
		},
		{
			name:       "missing name and price",
			req:        UpdateProductRequest{},
			wantFields: []string{"name", "priceCents"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertFields(t, tt.req.Validate(), tt.wantFields)
		})
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	tests := []struct {
		name       string
		req        CreateCategoryRequest
		wantFields []string
	}{
		{"valid", CreateCategoryRequest{Slug: "audio-gear", Name: "Audio Gear"}, nil},
		{"empty", CreateCategoryRequest{}, []string{"slug", "name"}},
		{"uppercase slug", CreateCategoryRequest{Slug: "Audio", Name: "Audio"}, []string{"slug"}},
		{
			"name too long",
			CreateCategoryRequest{Slug: "audio", Name: strings.Repeat("x", 101)},
			[]string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertFields(t, tt.req.Validate(), tt.wantFields)
		})
	}
}

func TestListProductsValidation(t *testing.T) {
	tests := []struct {
		name       string
		req        ListProductsRequest
		wantFields []string
	}{
		{"defaults", ListProductsRequest{}, nil},
		{"limit too high", ListProductsRequest{Limit: 500}, []string{"limit"}},
		{"negative offset", ListProductsRequest{Offset: -1}, []string{"offset"}},
		{"bad category", ListProductsRequest{CategoryID: "nope"}, []string{"categoryId"}},
		{"bad status", ListProductsRequest{Status: "on-sale"}, []string{"status"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertFields(t, tt.req.Validate(), tt.wantFields)
		})
	}
}

func TestParseID(t *testing.T) {
	if _, f := parseID("d9cf0df4-2f85-4d63-8f1e-5a4c5c2a9b10"); f != nil {
		t.Fatalf("parseID(valid) = %v, want nil", f)
	}

	_, f := parseID("42")
	if f == nil {
		t.Fatal("parseID(invalid) = nil, want validation failure")
	}
	if f.Kind != failure.KindValidation {
		t.Errorf("Kind = %s, want %s", f.Kind, failure.KindValidation)
	}
	if len(f.Fields["id"]) == 0 {
		t.Error("no violation recorded for field \"id\"")
	}
}
