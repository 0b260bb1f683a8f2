package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vmunix/marquee/internal/movie"
)

// mapSQLiteError converts SQLite errors to catalog error types.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	// modernc.org/sqlite wraps errors; check error message for constraint violations
	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "PRIMARY KEY constraint failed") {
		return ErrDuplicate
	}
	if strings.Contains(errStr, "CHECK constraint failed") ||
		strings.Contains(errStr, "NOT NULL constraint failed") {
		return ErrConstraint
	}
	return err
}

const movieColumns = `id, tmdb_id, imdb_id, title, original_title, overview, tagline, status,
	release_date, runtime_minutes, poster_path, backdrop_path, genres, rating, vote_count,
	popularity, budget, revenue, screenshot_url_template, screenshot_ids, cast_ids, director_ids,
	created_at, updated_at, imported_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*Movie, error) {
	var (
		m                                Movie
		genres, shots, cast, directors   string
		createdAt, updatedAt, importedAt string
	)
	err := row.Scan(&m.ID, &m.TMDBID, &m.IMDBID, &m.Title, &m.OriginalTitle, &m.Overview, &m.Tagline, &m.Status,
		&m.ReleaseDate, &m.RuntimeMinutes, &m.PosterPath, &m.BackdropPath, &genres, &m.Rating, &m.VoteCount,
		&m.Popularity, &m.Budget, &m.Revenue, &m.ScreenshotURLTemplate, &shots, &cast, &directors,
		&createdAt, &updatedAt, &importedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(genres), &m.Genres); err != nil {
		return nil, fmt.Errorf("decode genres for movie %d: %w", m.ID, err)
	}
	if err := json.Unmarshal([]byte(shots), &m.ScreenshotIDs); err != nil {
		return nil, fmt.Errorf("decode screenshot ids for movie %d: %w", m.ID, err)
	}
	if err := json.Unmarshal([]byte(cast), &m.Cast); err != nil {
		return nil, fmt.Errorf("decode cast for movie %d: %w", m.ID, err)
	}
	if err := json.Unmarshal([]byte(directors), &m.Directors); err != nil {
		return nil, fmt.Errorf("decode directors for movie %d: %w", m.ID, err)
	}
	if m.CreatedAt, err = parseStamp(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at for movie %d: %w", m.ID, err)
	}
	if m.UpdatedAt, err = parseStamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at for movie %d: %w", m.ID, err)
	}
	if importedAt != "" {
		if m.ImportedAt, err = parseStamp(importedAt); err != nil {
			return nil, fmt.Errorf("parse imported_at for movie %d: %w", m.ID, err)
		}
	}
	return &m, nil
}

func encodeList[T any](v []T) (string, error) {
	data, err := json.Marshal(nonNil(v))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func getMovie(ctx context.Context, q querier, id int64) (*Movie, error) {
	m, err := scanMovie(q.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, mapSQLiteError(err))
	}
	return m, nil
}

// Get retrieves a movie by catalog ID.
// Returns ErrNotFound if the movie does not exist.
func (s *Store) Get(ctx context.Context, id int64) (*Movie, error) { return getMovie(ctx, s.db, id) }

func getByTMDBID(ctx context.Context, q querier, tmdbID int64) (*Movie, error) {
	m, err := scanMovie(q.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE tmdb_id = ?", tmdbID))
	if err != nil {
		return nil, fmt.Errorf("get movie by tmdb id %d: %w", tmdbID, mapSQLiteError(err))
	}
	return m, nil
}

// GetByTMDBID retrieves a movie by its TMDB ID.
// Returns ErrNotFound if the movie does not exist.
func (s *Store) GetByTMDBID(ctx context.Context, tmdbID int64) (*Movie, error) {
	return getByTMDBID(ctx, s.db, tmdbID)
}

func listMovies(ctx context.Context, q querier) ([]*Movie, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+movieColumns+" FROM movies ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := []*Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return results, nil
}

// List returns every movie in insertion order.
func (s *Store) List(ctx context.Context) ([]*Movie, error) { return listMovies(ctx, s.db) }

// Count returns the number of movies in the catalog.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&n); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}

// Upsert inserts a movie or updates the existing record with the same TMDB
// ID. ID, CreatedAt and UpdatedAt are set on the struct. Reports whether a
// new record was created.
func (s *Store) Upsert(ctx context.Context, m *Movie) (bool, error) {
	genres, err := encodeList(m.Genres)
	if err != nil {
		return false, fmt.Errorf("encode genres: %w", err)
	}
	shots, err := encodeList(m.ScreenshotIDs)
	if err != nil {
		return false, fmt.Errorf("encode screenshot ids: %w", err)
	}
	cast, err := encodeList(m.Cast)
	if err != nil {
		return false, fmt.Errorf("encode cast: %w", err)
	}
	directors, err := encodeList(m.Directors)
	if err != nil {
		return false, fmt.Errorf("encode directors: %w", err)
	}
	imported := ""
	if !m.ImportedAt.IsZero() {
		imported = formatStamp(m.ImportedAt)
	}

	created := false
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		stamp, err := nextStamp(ctx, tx, s.now())
		if err != nil {
			return err
		}

		existing, err := getByTMDBID(ctx, tx, m.TMDBID)
		switch {
		case errors.Is(err, ErrNotFound):
			result, err := tx.ExecContext(ctx, `
				INSERT INTO movies (tmdb_id, imdb_id, title, original_title, overview, tagline, status,
					release_date, runtime_minutes, poster_path, backdrop_path, genres, rating, vote_count,
					popularity, budget, revenue, screenshot_url_template, screenshot_ids, cast_ids, director_ids,
					created_at, updated_at, imported_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				m.TMDBID, m.IMDBID, m.Title, m.OriginalTitle, m.Overview, m.Tagline, m.Status,
				m.ReleaseDate, m.RuntimeMinutes, m.PosterPath, m.BackdropPath, genres, m.Rating, m.VoteCount,
				m.Popularity, m.Budget, m.Revenue, m.ScreenshotURLTemplate, shots, cast, directors,
				formatStamp(stamp), formatStamp(stamp), imported,
			)
			if err != nil {
				return fmt.Errorf("insert movie: %w", mapSQLiteError(err))
			}
			id, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("get last insert id: %w", err)
			}
			m.ID = id
			m.CreatedAt = stamp
			created = true
		case err != nil:
			return err
		default:
			_, err := tx.ExecContext(ctx, `
				UPDATE movies SET imdb_id = ?, title = ?, original_title = ?, overview = ?, tagline = ?,
					status = ?, release_date = ?, runtime_minutes = ?, poster_path = ?, backdrop_path = ?,
					genres = ?, rating = ?, vote_count = ?, popularity = ?, budget = ?, revenue = ?,
					screenshot_url_template = ?, screenshot_ids = ?, cast_ids = ?, director_ids = ?,
					updated_at = ?, imported_at = ?
				WHERE id = ?`,
				m.IMDBID, m.Title, m.OriginalTitle, m.Overview, m.Tagline,
				m.Status, m.ReleaseDate, m.RuntimeMinutes, m.PosterPath, m.BackdropPath,
				genres, m.Rating, m.VoteCount, m.Popularity, m.Budget, m.Revenue,
				m.ScreenshotURLTemplate, shots, cast, directors, formatStamp(stamp), imported,
				existing.ID,
			)
			if err != nil {
				return fmt.Errorf("update movie %d: %w", existing.ID, mapSQLiteError(err))
			}
			m.ID = existing.ID
			m.CreatedAt = existing.CreatedAt
		}
		m.UpdatedAt = stamp
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// TMDBIDs returns the TMDB id of every movie in insertion order.
func (s *Store) TMDBIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT tmdb_id FROM movies ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list tmdb ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tmdb id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tmdb ids: %w", err)
	}
	return ids, nil
}

// Delete removes a movie by catalog ID. Deleting a missing movie is not an
// error. Note that a deletion does not move the data version forward.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete movie %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

func versionInfo(ctx context.Context, q querier, now func() string) (movie.VersionInfo, error) {
	var (
		latest sql.NullString
		total  int
	)
	if err := q.QueryRowContext(ctx, "SELECT MAX(updated_at), COUNT(*) FROM movies").Scan(&latest, &total); err != nil {
		return movie.VersionInfo{}, fmt.Errorf("read data version: %w", err)
	}
	info := movie.VersionInfo{TotalCount: total}
	if total > 0 && latest.Valid {
		info.DataVersion = latest.String
	} else {
		info.DataVersion = now()
	}
	return info, nil
}

// DataVersion returns the newest updated_at across all movies, or the current
// time when the catalog is empty, along with the record count.
func (s *Store) DataVersion(ctx context.Context) (movie.VersionInfo, error) {
	return versionInfo(ctx, s.db, s.nowStamp)
}

// Snapshot reads the full list and the data version in one transaction, so
// the version describes exactly the returned movies.
func (s *Store) Snapshot(ctx context.Context) (movie.Collection, int, error) {
	var (
		col   movie.Collection
		total int
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		records, err := listMovies(ctx, tx)
		if err != nil {
			return err
		}
		info, err := versionInfo(ctx, tx, s.nowStamp)
		if err != nil {
			return err
		}
		col.Movies = make([]movie.Movie, len(records))
		for i, r := range records {
			col.Movies[i] = r.ListItem()
		}
		col.DataVersion = info.DataVersion
		total = info.TotalCount
		return nil
	})
	if err != nil {
		return movie.Collection{}, 0, fmt.Errorf("snapshot: %w", err)
	}
	return col, total, nil
}

func (s *Store) nowStamp() string {
	return formatStamp(s.now())
}
