package catalog

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/marquee/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "open db")
	// every pooled connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	err = migrations.Apply(db)
	require.NoError(t, err, "apply schema")
	return db
}

// fixedClock returns a clock that always reports t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func fightClub() *Movie {
	return &Movie{
		TMDBID:         550,
		IMDBID:         "tt0137523",
		Title:          "Fight Club",
		ReleaseDate:    "1999-10-15",
		RuntimeMinutes: 139,
		PosterPath:     "/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg",
		BackdropPath:   "/hZkgoQYus5vegHoetLkCJzb17zJ.jpg",
		Genres:         []string{"Drama", "Thriller"},
		Rating:         8.4,
		ScreenshotIDs:  []string{"/a.jpg", "/b.jpg"},
	}
}
