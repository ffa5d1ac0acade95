package sync

import (
	"testing"

	"reelsync/internal/models"
)

func TestMapPropertiesMovie(t *testing.T) {
	detail := &models.TmdbDetail{
		ID:          49526,
		Title:       "Gravity",
		ReleaseDate: "2013-10-04",
		VoteAverage: 7.228,
		Genres:      []models.TmdbGenre{{Name: "Science Fiction"}, {Name: "Thriller"}},
		PosterPath:  "/gravity.jpg",
	}

	props := MapProperties(detail, models.MediaTypeMovie, []string{"Netflix", "Max"})

	if props.Title != "Gravity" {
		t.Errorf("Title = %q, want Gravity", props.Title)
	}
	if props.Format != models.FormatMovie {
		t.Errorf("Format = %s, want Movie", props.Format)
	}
	if props.Year == nil || *props.Year != 2013 {
		t.Errorf("Year = %v, want 2013", props.Year)
	}
	if props.Rating == nil || *props.Rating != 7.2 {
		t.Errorf("Rating = %v, want 7.2", props.Rating)
	}
	if len(props.Genres) != 2 || props.Genres[0] != "Science Fiction" {
		t.Errorf("Genres = %v", props.Genres)
	}
	if props.Platform == nil || *props.Platform != "Netflix" {
		t.Errorf("Platform = %v, want first provider", props.Platform)
	}
	if props.Seasons != nil || props.Episodes != nil {
		t.Error("movie must not carry season or episode counts")
	}
	if props.ImageURL == nil || *props.ImageURL != "https://image.tmdb.org/t/p/w500/gravity.jpg" {
		t.Errorf("ImageURL = %v", props.ImageURL)
	}
}

func TestMapPropertiesSeries(t *testing.T) {
	detail := &models.TmdbDetail{
		ID:            87108,
		Name:          "Chernobyl",
		FirstAirDate:  "2019-05-06",
		VoteAverage:   8.7,
		NumberSeasons: 1,
		NumberEps:     5,
	}

	props := MapProperties(detail, models.MediaTypeTV, nil)

	if props.Title != "Chernobyl" {
		t.Errorf("Title = %q, want series name fallback", props.Title)
	}
	if props.Format != models.FormatSeries {
		t.Errorf("Format = %s, want Series", props.Format)
	}
	if props.Year == nil || *props.Year != 2019 {
		t.Errorf("Year = %v, want 2019", props.Year)
	}
	if props.Seasons == nil || *props.Seasons != 1 {
		t.Errorf("Seasons = %v, want 1", props.Seasons)
	}
	if props.Episodes == nil || *props.Episodes != 5 {
		t.Errorf("Episodes = %v, want 5", props.Episodes)
	}
	if props.Platform != nil {
		t.Error("Platform must be omitted with no providers")
	}
}

func TestMapPropertiesZeroRating(t *testing.T) {
	props := MapProperties(&models.TmdbDetail{ID: 1, Title: "Obscure"}, models.MediaTypeMovie, nil)
	if props.Rating != nil {
		t.Errorf("Rating = %v, want nil for zero vote average", props.Rating)
	}
}

func TestMapPropertiesUnparseableDate(t *testing.T) {
	props := MapProperties(&models.TmdbDetail{ID: 1, Title: "Undated", ReleaseDate: "n/a"}, models.MediaTypeMovie, nil)
	if props.Year != nil {
		t.Errorf("Year = %v, want nil for unparseable date", props.Year)
	}
}

func TestMapPropertiesEmptyDate(t *testing.T) {
	props := MapProperties(&models.TmdbDetail{ID: 1, Title: "Undated"}, models.MediaTypeMovie, nil)
	if props.Year != nil {
		t.Errorf("Year = %v, want nil for empty date", props.Year)
	}
}

func TestPosterURLFallsBackToBackdrop(t *testing.T) {
	detail := &models.TmdbDetail{BackdropPath: "/backdrop.jpg"}
	if got := PosterURL(detail); got != "https://image.tmdb.org/t/p/w500/backdrop.jpg" {
		t.Errorf("PosterURL = %q", got)
	}
	if got := PosterURL(&models.TmdbDetail{}); got != "" {
		t.Errorf("PosterURL = %q, want empty with no art", got)
	}
}
