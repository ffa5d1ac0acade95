package models

type TmdbSearchResponse struct {
	Page    int             `json:"page"`
	Results []TmdbSearchHit `json:"results"`
}

type TmdbSearchHit struct {
	ID        int64  `json:"id"`
	MediaType string `json:"media_type"`
	Title     string `json:"title"`
	Name      string `json:"name"`
}

type TmdbDetail struct {
	ID            int64       `json:"id"`
	Title         string      `json:"title"`
	Name          string      `json:"name"`
	ReleaseDate   string      `json:"release_date"`
	FirstAirDate  string      `json:"first_air_date"`
	VoteAverage   float64     `json:"vote_average"`
	Genres        []TmdbGenre `json:"genres"`
	NumberSeasons int         `json:"number_of_seasons"`
	NumberEps     int         `json:"number_of_episodes"`
	PosterPath    string      `json:"poster_path"`
	BackdropPath  string      `json:"backdrop_path"`
}

type TmdbGenre struct {
	Name string `json:"name"`
}

type TmdbProvidersResponse struct {
	Results map[string]TmdbRegionProviders `json:"results"`
}

type TmdbRegionProviders struct {
	Flatrate []TmdbProvider `json:"flatrate"`
}

type TmdbProvider struct {
	ProviderName string `json:"provider_name"`
}
