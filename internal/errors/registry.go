package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Route Table Errors (R001-R009)
	// ============================================

	"R001": {
		Category: CategoryRoute,
		Message:  "Malformed route pattern",
		Detail:   "Route patterns must be absolute (start with \"/\") and contain only static segments, :param or :param:type segments, and a trailing *catchall.",
	},
	"R002": {
		Category: CategoryRoute,
		Message:  "Duplicate route name",
		Detail:   "Route names identify routes for named navigation and must be unique.",
	},
	"R003": {
		Category: CategoryRoute,
		Message:  "Duplicate route path",
		Detail:   "Two routes declare the same pattern. Only the first could ever match.",
	},
	"R004": {
		Category: CategoryRoute,
		Message:  "Empty route table",
		Detail:   "A router needs at least one route.",
	},
	"R005": {
		Category: CategoryRoute,
		Message:  "Route has no view",
		Detail:   "Every route must reference a renderable view.",
	},
	"R006": {
		Category: CategoryRoute,
		Message:  "Missing history strategy",
		Detail:   "The router needs a history strategy to synchronize locations.",
	},
	"R007": {
		Category: CategoryRoute,
		Message:  "Invalid history base",
		Detail:   "The history base must be an absolute path without query or fragment.",
	},

	// ============================================
	// Navigation Errors (R010-R029)
	// ============================================

	"R010": {
		Category: CategoryNavigation,
		Message:  "No route matched",
		Detail:   "The requested location does not match any route in the table.",
	},
	"R011": {
		Category: CategoryNavigation,
		Message:  "Unknown route name",
		Detail:   "Named navigation referenced a route that is not in the table.",
	},
	"R012": {
		Category: CategoryNavigation,
		Message:  "Missing route parameter",
		Detail:   "Building a location from a named route requires a value for every parameter in its pattern.",
	},
	"R013": {
		Category: CategoryNavigation,
		Message:  "Invalid navigation target",
		Detail:   "Navigation targets must be relative paths starting with \"/\" that stay within the application root.",
	},
	"R014": {
		Category: CategoryNavigation,
		Message:  "Navigation aborted",
		Detail:   "A navigation guard rejected the transition.",
	},
	"R015": {
		Category: CategoryNavigation,
		Message:  "Invalid route parameter",
		Detail:   "A parameter value does not satisfy the type declared in the route pattern.",
	},
	"R017": {
		Category: CategoryNavigation,
		Message:  "Too many redirects",
		Detail:   "Navigation guards redirected more times than allowed. Check for a redirect loop.",
	},
	"R016": {
		Category: CategoryNavigation,
		Message:  "No history entry",
		Detail:   "There is no history entry in the requested direction.",
	},

	// ============================================
	// Configuration Errors (C001-C019)
	// ============================================

	"C001": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be read or parsed.",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No routekit.json or routekit.toml was found.",
	},
	"C003": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "Port must be between 0 and 65535.",
	},
	"C004": {
		Category: CategoryConfig,
		Message:  "Invalid history mode",
		Detail:   "History mode must be \"web\" or \"hash\".",
	},
	"C005": {
		Category: CategoryConfig,
		Message:  "Invalid history base",
		Detail:   "The history base must be an absolute path.",
	},
	"C006": {
		Category: CategoryConfig,
		Message:  "Invalid asset source",
		Detail:   "Asset source must be \"dir\" or \"s3\"; s3 requires a bucket.",
	},

	// ============================================
	// Serve Errors (S001-S019)
	// ============================================

	"S001": {
		Category: CategoryServe,
		Message:  "Asset not found",
		Detail:   "The requested asset does not exist in the configured asset store.",
	},
	"S002": {
		Category: CategoryServe,
		Message:  "Asset store unavailable",
		Detail:   "The asset store returned an error while fetching an asset.",
	},
	"S003": {
		Category: CategoryServe,
		Message:  "Invalid navigation message",
		Detail:   "The navigation channel received a message it could not decode.",
	},
	"S004": {
		Category: CategoryServe,
		Message:  "Render failed",
		Detail:   "A view returned an error while rendering.",
	},
	"S005": {
		Category: CategoryServe,
		Message:  "Listen failed",
		Detail:   "The server could not bind its listen address.",
	},
}

// GetAllCodes returns all registered error codes in order.
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
