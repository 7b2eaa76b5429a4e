package transform

import (
	"sparkify/internal/model"
	"sparkify/pkg/records"
)

// ExtractSongArtist projects one song-catalog record into a songs-dimension
// row and an artists-dimension row.
//
// This is a pure projection: nullable geographic fields pass through
// unchanged, no validation happens here. Malformed input surfaces as a parse
// failure in the record reader, never in this function, so calling it twice
// on the same record always yields identical rows.
func ExtractSongArtist(rec records.Record) (model.Song, model.Artist) {
	song := model.Song{
		ID:       rec.String("song_id"),
		Title:    rec.String("title"),
		ArtistID: rec.String("artist_id"),
	}
	if y, ok := rec.Int64("year"); ok {
		song.Year = int(y)
	}
	if d, ok := rec.Float("duration"); ok {
		song.Duration = d
	}

	artist := model.Artist{
		ID:        rec.String("artist_id"),
		Name:      rec.String("artist_name"),
		Location:  rec.String("artist_location"),
		Latitude:  rec.FloatPtr("artist_latitude"),
		Longitude: rec.FloatPtr("artist_longitude"),
	}
	return song, artist
}
