package domain

// Artist is a reference to a Spotify artist. The extended fields are only
// filled when the artist itself was extracted.
type Artist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	URI  string `json:"uri"`

	Images           []Image `json:"images"`
	Biography        string  `json:"biography"`
	MonthlyListeners *int64  `json:"monthly_listeners"`
	TopTracks        []Track `json:"top_tracks"`
}

func (a Artist) Kind() Kind        { return KindArtist }
func (a Artist) SpotifyID() string { return a.ID }

// Album is a reference to a Spotify album. Tracks is filled only when the
// album page itself was extracted.
type Album struct {
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	URI         string   `json:"uri"`
	Images      []Image  `json:"images"`
	ReleaseDate string   `json:"release_date"`
	TotalTracks int      `json:"total_tracks"`
	AlbumType   string   `json:"album_type"`
	Artists     []Artist `json:"artists"`
	Tracks      []Track  `json:"tracks"`
}

func (a Album) Kind() Kind        { return KindAlbum }
func (a Album) SpotifyID() string { return a.ID }

// Track is a single Spotify track.
type Track struct {
	Name       string        `json:"name"`
	ID         string        `json:"id"`
	URI        string        `json:"uri"`
	DurationMS int64         `json:"duration_ms"`
	PreviewURL *string       `json:"preview_url"`
	IsPlayable bool          `json:"is_playable"`
	Artists    []Artist      `json:"artists"`
	Album      Album         `json:"album"`
	Lyrics     []SyncedLyric `json:"lyrics"`
}

func (t Track) Kind() Kind        { return KindTrack }
func (t Track) SpotifyID() string { return t.ID }

// SyncedLyric is one timed line of lyrics.
type SyncedLyric struct {
	Text        string `json:"text"`
	StartTimeMS int64  `json:"start_time_ms"`
	EndTimeMS   *int64 `json:"end_time_ms"`
}
