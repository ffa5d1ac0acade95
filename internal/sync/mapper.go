package sync

import (
	"math"
	"strconv"

	"reelsync/internal/models"
)

const tmdbImageBase = "https://image.tmdb.org/t/p/w500"

// MapProperties converts a catalog detail record into the destination
// schema. Pure function, no I/O. Status is deliberately absent: it is set by
// the store write only when a record is created.
func MapProperties(detail *models.TmdbDetail, mediaType models.MediaType, providers []string) models.Properties {
	props := models.Properties{
		Title:      detail.Title,
		ExternalID: detail.ID,
		Format:     mediaType.Format(),
	}
	if props.Title == "" {
		props.Title = detail.Name
	}

	dateStr := detail.ReleaseDate
	if dateStr == "" {
		dateStr = detail.FirstAirDate
	}
	if len(dateStr) >= 4 {
		if year, err := strconv.Atoi(dateStr[:4]); err == nil {
			props.Year = &year
		}
	}

	if detail.VoteAverage > 0 {
		rating := math.Round(detail.VoteAverage*10) / 10
		props.Rating = &rating
	}

	for _, genre := range detail.Genres {
		props.Genres = append(props.Genres, genre.Name)
	}

	if mediaType == models.MediaTypeTV {
		seasons := detail.NumberSeasons
		episodes := detail.NumberEps
		props.Seasons = &seasons
		props.Episodes = &episodes
	}

	if len(providers) > 0 {
		platform := providers[0]
		props.Platform = &platform
	}

	if url := PosterURL(detail); url != "" {
		props.ImageURL = &url
	}

	return props
}

// PosterURL builds the image reference for a detail record, preferring the
// poster over the backdrop. Empty when the record has neither.
func PosterURL(detail *models.TmdbDetail) string {
	switch {
	case detail.PosterPath != "":
		return tmdbImageBase + detail.PosterPath
	case detail.BackdropPath != "":
		return tmdbImageBase + detail.BackdropPath
	default:
		return ""
	}
}
