package view

import "gh300site/internal/model"

// Page names understood by the engine.
const (
	PageHome  = "index"
	PageInfo  = "info"
	PageError = "error"
)

// SiteName is shown in the header and the document title.
const SiteName = "20251106-GH300"

// Page carries what the layout needs on every page.
type Page struct {
	Title     string
	Active    string
	Debug     bool
	RequestID string
}

func (Page) SiteName() string { return SiteName }

// HomePage is the binding for PageHome.
type HomePage struct {
	Page
	Cards []model.FeatureCard
}

// InfoPage is the binding for PageInfo.
type InfoPage struct {
	Page
	Info model.RepoInfo
}

// ErrorPage is the binding for PageError.
type ErrorPage struct {
	Page
	Status  int
	Message string
	// Detail is the raw error text, only filled in debug mode.
	Detail string
}

// ShowRequestID reports whether a request id is available to display.
// Whitespace-only ids still count as present.
func (p ErrorPage) ShowRequestID() bool {
	return p.RequestID != ""
}
