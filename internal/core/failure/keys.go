package failure

// Message keys are opaque identifiers that a client-side message catalog can
// resolve to localized text. The set is closed; resolution is not this
// service's job.
const (
	KeyInvalidInput     = "catalog.error.invalid_input"
	KeyMalformedRequest = "catalog.error.malformed_request"
	KeyNotFound         = "catalog.error.not_found"
	KeyUnauthorized     = "catalog.error.unauthorized"
	KeyForbidden        = "catalog.error.forbidden"
	KeyConflict         = "catalog.error.conflict"
	KeyCategoryMissing  = "catalog.error.category_missing"
	KeyCategoryInUse    = "catalog.error.category_in_use"
	KeyReadOnly         = "catalog.error.read_only"
	KeyInternal         = "catalog.error.internal"
)
