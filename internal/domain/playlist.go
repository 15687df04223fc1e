package domain

// Owner identifies the user that owns a playlist.
type Owner struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PlaylistTrack is the reduced track shape listed on playlist pages.
type PlaylistTrack struct {
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album"`
	DurationMS int64    `json:"duration_ms"`
}

// Playlist is a Spotify playlist with its entries in listing order.
type Playlist struct {
	ID          string          `json:"id"`
	URI         string          `json:"uri"`
	Title       string          `json:"title"`
	CoverURL    string          `json:"cover_url"`
	Owner       Owner           `json:"owner"`
	Tracks      []PlaylistTrack `json:"tracks"`
	Description string          `json:"description"`
}

func (p Playlist) Kind() Kind        { return KindPlaylist }
func (p Playlist) SpotifyID() string { return p.ID }
