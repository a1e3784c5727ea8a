// Package errors provides structured, actionable errors for routekit.
//
// Every error carries a short code that maps to a registered template:
//   - R001-R009: route table construction (fatal at startup)
//   - R010-R029: navigation and resolution (recoverable)
//   - C001-C019: configuration
//   - S001-S019: serving (assets, navigation channel)
//
// # Usage
//
//	err := errors.New("R002").
//	    WithRoute("/login").
//	    WithSuggestion("Give every route a unique name")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R002: Duplicate route name
//	//
//	//   route /login
//	//
//	//   Route names identify routes for named navigation and must be unique.
//	//
//	//   Hint: Give every route a unique name
//
// Errors created from the same code compare equal under errors.Is, so callers
// can match a category of failure without inspecting messages.
package errors
