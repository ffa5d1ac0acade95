package models

// Status is the watch state of a record. Values map to the select labels
// used in the Notion database, see StatusLabel.
type Status string

const (
	StatusToWatch  Status = "to_watch"
	StatusWatching Status = "watching"
	StatusWatched  Status = "watched"
)

var statusLabels = map[Status]string{
	StatusToWatch:  "🧡 To Watch",
	StatusWatching: "💛 Watching",
	StatusWatched:  "💚 Watched",
}

// Label returns the select option name stored in Notion for this status.
func (s Status) Label() string {
	return statusLabels[s]
}

// StatusFromLabel maps a Notion select label back to a Status. The bool is
// false for labels that are not part of the closed set.
func StatusFromLabel(label string) (Status, bool) {
	for status, l := range statusLabels {
		if l == label {
			return status, true
		}
	}
	return "", false
}

// Format distinguishes movies from series.
type Format string

const (
	FormatMovie  Format = "Movie"
	FormatSeries Format = "Series"
)

// MediaType is the catalog-side media kind, using TMDB's wire values.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// Format returns the destination-schema format for this media type.
func (m MediaType) Format() Format {
	if m == MediaTypeTV {
		return FormatSeries
	}
	return FormatMovie
}

// Supported reports whether this media type can be tracked.
func (m MediaType) Supported() bool {
	return m == MediaTypeMovie || m == MediaTypeTV
}

// ExternalItem is the resolved catalog hit for a title query.
type ExternalItem struct {
	ExternalID int64     `json:"external_id"`
	MediaType  MediaType `json:"media_type"`
	Title      string    `json:"title"`
}

// Properties is the destination schema of a record, minus Status. Status is
// injected by the store only at creation so later syncs never clobber a
// status the user has advanced by hand.
type Properties struct {
	Title      string   `json:"title"`
	ExternalID int64    `json:"external_id"`
	Format     Format   `json:"format"`
	Year       *int     `json:"year,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Seasons    *int     `json:"seasons,omitempty"`
	Episodes   *int     `json:"episodes,omitempty"`
	Platform   *string  `json:"platform,omitempty"`
	ImageURL   *string  `json:"image_url,omitempty"`
}

// Record is one watchlist entry in the destination store.
type Record struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ExternalID *int64 `json:"external_id,omitempty"`
	Status     Status `json:"status"`
	Format     Format `json:"format,omitempty"`
	Year       *int   `json:"year,omitempty"`
}
