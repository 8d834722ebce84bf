package models

const (
	DefaultSiteTitle = "Digital Paintings Gallery"
)

type OpenGraph struct {
	Image string
	URL   string
	Title string
}

type TwitterCard struct {
	Image string
	Title string
}

// SharingMetadata holds the social preview tags written into the page head.
type SharingMetadata struct {
	OpenGraph OpenGraph
	Twitter   TwitterCard
}

func DefaultSharingMetadata() SharingMetadata {
	return SharingMetadata{
		OpenGraph: OpenGraph{Title: DefaultSiteTitle},
		Twitter:   TwitterCard{Title: DefaultSiteTitle},
	}
}
