package catalog

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/Waito3007/aRefactor/internal/core/domain"
	"github.com/Waito3007/aRefactor/internal/core/failure"
)

var (
	skuPattern  = regexp.MustCompile(`^[A-Za-z0-9_-]{3,64}$`)
	slugPattern = regexp.MustCompile(`^[a-z0-9-]{2,64}$`)
)

// Validator accumulates field violations so a request is checked against
// every declared rule before anything is raised.
type Validator struct {
	fields map[string][]string
}

func NewValidator() *Validator {
	return &Validator{fields: make(map[string][]string)}
}

// Add records one violation against a field.
func (v *Validator) Add(field, message string) {
	v.fields[field] = append(v.fields[field], message)
}

// Failure returns the batched Validation failure, or nil when every rule
// passed.
func (v *Validator) Failure() *failure.Failure {
	if len(v.fields) == 0 {
		return nil
	}
	return failure.Validation(v.fields)
}

func checkSKU(v *Validator, sku string) {
	if sku == "" {
		v.Add("sku", "is required")
		return
	}
	if !skuPattern.MatchString(sku) {
		v.Add("sku", "must be 3-64 characters of letters, digits, '-' or '_'")
	}
}

func checkName(v *Validator, name string) {
	if name == "" {
		v.Add("name", "is required")
		return
	}
	if len(name) > 200 {
		v.Add("name", "must be at most 200 characters")
	}
}

func checkDescription(v *Validator, description string) {
	if len(description) > 2000 {
		v.Add("description", "must be at most 2000 characters")
	}
}

func checkPrice(v *Validator, price *int64) {
	if price == nil {
		v.Add("priceCents", "is required")
		return
	}
	if *price < 0 {
		v.Add("priceCents", "must not be negative")
	}
}

func checkStatus(v *Validator, status string) {
	switch domain.ProductStatus(status) {
	case "", domain.ProductStatusActive, domain.ProductStatusDiscontinued:
	default:
		v.Add("status", fmt.Sprintf("must be %q or %q",
			domain.ProductStatusActive, domain.ProductStatusDiscontinued))
	}
}

func checkCategoryID(v *Validator, id *string) {
	if id == nil || *id == "" {
		return
	}
	if _, err := uuid.Parse(*id); err != nil {
		v.Add("categoryId", "must be a valid UUID")
	}
}

// Validate checks every creation rule and batches the violations.
func (r *CreateProductRequest) Validate() *failure.Failure {
	v := NewValidator()
	checkSKU(v, r.SKU)
	checkName(v, r.Name)
	checkDescription(v, r.Description)
	checkPrice(v, r.PriceCents)
	checkStatus(v, r.Status)
	checkCategoryID(v, r.CategoryID)
	return v.Failure()
}

// Validate checks every update rule and batches the violations.
func (r *UpdateProductRequest) Validate() *failure.Failure {
	v := NewValidator()
	checkName(v, r.Name)
	checkDescription(v, r.Description)
	checkPrice(v, r.PriceCents)
	checkStatus(v, r.Status)
	checkCategoryID(v, r.CategoryID)
	return v.Failure()
}

// Validate checks every category rule and batches the violations.
func (r *CreateCategoryRequest) Validate() *failure.Failure {
	v := NewValidator()
	if r.Slug == "" {
		v.Add("slug", "is required")
	} else if !slugPattern.MatchString(r.Slug) {
		v.Add("slug", "must be 2-64 lowercase characters, digits or '-'")
	}
	if r.Name == "" {
		v.Add("name", "is required")
	} else if len(r.Name) > 100 {
		v.Add("name", "must be at most 100 characters")
	}
	return v.Failure()
}

// Validate checks paging and filter parameters.
func (r *ListProductsRequest) Validate() *failure.Failure {
	v := NewValidator()
	if r.Limit < 0 || r.Limit > maxListLimit {
		v.Add("limit", fmt.Sprintf("must be between 0 and %d", maxListLimit))
	}
	if r.Offset < 0 {
		v.Add("offset", "must not be negative")
	}
	if r.Status != "" {
		checkStatus(v, r.Status)
	}
	if r.CategoryID != "" {
		if _, err := uuid.Parse(r.CategoryID); err != nil {
			v.Add("categoryId", "must be a valid UUID")
		}
	}
	return v.Failure()
}

// parseID validates a path identifier. A malformed id is a validation
// failure, not an infrastructure fault.
func parseID(raw string) (uuid.UUID, *failure.Failure) {
	id, err := uuid.Parse(raw)
	if err != nil {
		v := NewValidator()
		v.Add("id", "must be a valid UUID")
		return uuid.Nil, v.Failure()
	}
	return id, nil
}
