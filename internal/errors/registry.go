package errors

import "sort"

// Registered codes.
const (
	CodeStoreUnavailable = "E001"
	CodeNoSession        = "E002"
	CodeItemNotFound     = "E003"
	CodeMalformedInput   = "E004"
	CodeRenderFailed     = "E005"

	CodeConfigInvalid  = "E120"
	CodeConfigNotFound = "E121"
	CodeConfigBackend  = "E122"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Request Errors (E001-E099)
	// ============================================

	CodeStoreUnavailable: {
		Category: CategoryStore,
		Message:  "State store unavailable",
		Detail:   "The backing store could not be reached. The request was aborted without changing state.",
	},
	CodeNoSession: {
		Category: CategorySession,
		Message:  "No session",
		Detail:   "The client has no bound state. Submit a name before counting.",
	},
	CodeItemNotFound: {
		Category: CategoryNotFound,
		Message:  "Item not found",
		Detail:   "No item with this id exists in the client's list.",
	},
	CodeMalformedInput: {
		Category: CategoryValidation,
		Message:  "Malformed input",
		Detail:   "The form body could not be parsed or failed validation.",
	},
	CodeRenderFailed: {
		Category: CategoryRender,
		Message:  "Render failed",
		Detail:   "A page or fragment could not be rendered. State was already saved.",
	},

	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A configuration value is out of range or the file could not be parsed.",
	},
	CodeConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "The file named by --config does not exist.",
	},
	CodeConfigBackend: {
		Category: CategoryConfig,
		Message:  "Store backend could not be opened",
		Detail:   "The configured store backend failed to initialize.",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
