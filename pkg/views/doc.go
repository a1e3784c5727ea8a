// Package views holds the application's renderable views.
//
// Each view implements router.Renderable. Views that receive forwarded
// props bind them with router.BindProps and sanitize every value before it
// reaches the page.
package views
