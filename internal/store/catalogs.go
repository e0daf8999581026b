package store

// Static catalogs surfaced to the model through the context snapshot. These
// mirror the portal's fixed offering and are not stored in the database.

var serviceCatalog = []Service{
	{Name: "Branding", Description: "Brand identity, naming and guidelines"},
	{Name: "Web Design", Description: "Marketing sites and landing pages"},
	{Name: "Web Development", Description: "Custom web application development"},
	{Name: "SEO", Description: "Search engine optimization and content strategy"},
	{Name: "Paid Media", Description: "Paid search and social campaigns"},
	{Name: "Social Media", Description: "Organic social management"},
	{Name: "Content Production", Description: "Copywriting, photo and video"},
	{Name: "Consulting", Description: "Strategy and growth consulting"},
}

var iconCatalog = []string{
	"briefcase", "calendar", "chart", "chat", "check", "clipboard",
	"document", "flag", "folder", "globe", "lightbulb", "megaphone",
	"palette", "rocket", "star", "target", "users", "wrench",
}

// ServiceCatalog returns the portal's fixed service offering.
func ServiceCatalog() []Service {
	return serviceCatalog
}

// IconCatalog returns the icon names available for portal entities.
func IconCatalog() []string {
	return iconCatalog
}
