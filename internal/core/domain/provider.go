package domain

// Provider identifies an external system documents can be imported from.
type Provider string

const (
	// ProviderDropbox is Dropbox file storage.
	ProviderDropbox Provider = "dropbox"
	// ProviderGoogleDrive is Google Drive.
	ProviderGoogleDrive Provider = "google-drive"
	// ProviderNotion is a Notion workspace.
	ProviderNotion Provider = "notion"
)

// ProviderInfo holds the static catalog entry for a provider.
type ProviderInfo struct {
	// ID is the provider identifier used in API routes and credential rows.
	ID Provider
	// Name is the human-readable display name.
	Name string
	// Description provides a brief explanation of the integration.
	Description string
	// TokenURL is the OAuth token endpoint used for refresh grants.
	TokenURL string
	// SupportsRefresh is false for providers that issue non-expiring tokens.
	SupportsRefresh bool
}

// providerCatalog is the closed set of supported providers.
// Plain data on purpose: adding a provider means adding a row here plus an
// adapter, nothing else.
var providerCatalog = map[Provider]ProviderInfo{
	ProviderDropbox: {
		ID:              ProviderDropbox,
		Name:            "Dropbox",
		Description:     "Import documents from Dropbox folders",
		TokenURL:        "https://api.dropboxapi.com/oauth2/token",
		SupportsRefresh: true,
	},
	ProviderGoogleDrive: {
		ID:              ProviderGoogleDrive,
		Name:            "Google Drive",
		Description:     "Import documents and Google Docs from Drive",
		TokenURL:        "https://oauth2.googleapis.com/token",
		SupportsRefresh: true,
	},
	ProviderNotion: {
		ID:              ProviderNotion,
		Name:            "Notion",
		Description:     "Import pages from a Notion workspace",
		TokenURL:        "https://api.notion.com/v1/oauth/token",
		SupportsRefresh: false,
	},
}

// LookupProvider returns the catalog entry for a provider.
func LookupProvider(p Provider) (ProviderInfo, bool) {
	info, ok := providerCatalog[p]
	return info, ok
}

// SupportedProviders returns the identifiers of all supported providers.
func SupportedProviders() []Provider {
	return []Provider{ProviderDropbox, ProviderGoogleDrive, ProviderNotion}
}

// IsSupportedProvider reports whether p is one of the supported providers.
func IsSupportedProvider(p Provider) bool {
	_, ok := providerCatalog[p]
	return ok
}
