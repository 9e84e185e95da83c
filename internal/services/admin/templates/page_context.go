package templates

// PageContext provides shared layout context for admin pages.
type PageContext struct {
	Lang        string
	Loc         Localizer
	CurrentPath string
	// AdminEmail is shown in the header; empty on the login page.
	AdminEmail string
	// PendingBadge pre-fills the navigation badge when the page already
	// knows the pending count.
	PendingBadge string
}
