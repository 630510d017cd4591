package domain

// ImageArchive mirrors the remote service's response envelope. Only the
// first element of Images is ever consulted.
type ImageArchive struct {
	Images []ImageRecord `json:"images"`
}

// ImageRecord is the transient, parsed form of one day's metadata. It is
// never persisted as such; the raw JSON bytes are what the archive stores,
// re-parsed on each lookup.
type ImageRecord struct {
	// StartDate is the service's compact yyyyMMdd publication date.
	StartDate string `json:"startdate"`
	// URL is the image location, absolute or root-relative.
	URL string `json:"url"`
	// Copyright is the display attribution text.
	Copyright string `json:"copyright"`
	// CopyrightLink points at the attribution page.
	CopyrightLink string `json:"copyrightlink"`
}

// Info is the caller-facing metadata pair for a cached day.
type Info struct {
	Copyright     string
	CopyrightLink string
}

// ScreenResolution holds the display dimensions used when fitting an
// archived image to the screen.
type ScreenResolution struct {
	Width  int
	Height int
}
