package mapper

import (
	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/tidwall/gjson"
)

// Lyrics maps a color-lyrics payload. Lines without an explicit end end
// where the next line starts; the last such line has no end.
func Lyrics(node gjson.Result) []domain.SyncedLyric {
	lines := array(node, "lyrics.lines", "lines")
	out := make([]domain.SyncedLyric, 0, len(lines))

	for i, line := range lines {
		start, _ := num(line, "startTimeMs", "start_time_ms")
		lyric := domain.SyncedLyric{
			Text:        str(line, "words", "text"),
			StartTimeMS: start,
		}

		end, ok := num(line, "endTimeMs", "end_time_ms")
		if (!ok || end <= 0) && i+1 < len(lines) {
			end, ok = num(lines[i+1], "startTimeMs", "start_time_ms")
		}
		if ok && end > 0 && end >= start {
			lyric.EndTimeMS = &end
		}

		out = append(out, lyric)
	}
	return out
}
