package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/vmunix/marquee/internal/movie"
)

// maxPeopleLookup bounds one GetPeopleByTMDBIDs call so the IN list stays
// under SQLite's bound parameter limit.
const maxPeopleLookup = 500

// Person is a credited cast or crew member.
type Person struct {
	ID           int64
	TMDBPersonID int64
	Name         string
	ProfilePath  string
	Department   string
	Character    string
	UpdatedAt    time.Time
}

// Public projects the record onto the API view.
func (p *Person) Public() movie.Person {
	return movie.Person{
		TMDBPersonID: p.TMDBPersonID,
		Name:         p.Name,
		ProfilePath:  p.ProfilePath,
		Department:   p.Department,
		Character:    p.Character,
		UpdatedAt:    p.UpdatedAt,
	}
}

// UpsertPeople inserts or refreshes people keyed by TMDB person id, all in
// one transaction. People are not part of the movie list, so the data
// version does not move. Returns the number of records written.
func (s *Store) UpsertPeople(ctx context.Context, people []*Person) (int, error) {
	if len(people) == 0 {
		return 0, nil
	}
	stamp := s.now().UTC()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, p := range people {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO people (tmdb_person_id, name, profile_path, department, character_name, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT (tmdb_person_id) DO UPDATE SET
					name = excluded.name,
					profile_path = excluded.profile_path,
					department = excluded.department,
					character_name = excluded.character_name,
					updated_at = excluded.updated_at`,
				p.TMDBPersonID, p.Name, p.ProfilePath, p.Department, p.Character, formatStamp(stamp),
			)
			if err != nil {
				return fmt.Errorf("upsert person %d: %w", p.TMDBPersonID, mapSQLiteError(err))
			}
			p.UpdatedAt = stamp
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(people), nil
}

// GetPeopleByTMDBIDs returns the known people among ids, in the order the
// ids were given. Unknown and repeated ids are skipped.
func (s *Store) GetPeopleByTMDBIDs(ctx context.Context, ids []int64) ([]*Person, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []*Person{}, nil
	}
	if len(ids) > maxPeopleLookup {
		return nil, fmt.Errorf("%w: at most %d people per lookup", ErrConstraint, maxPeopleLookup)
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `SELECT id, tmdb_person_id, name, profile_path, department, character_name, updated_at
		FROM people WHERE tmdb_person_id IN (?` + strings.Repeat(", ?", len(ids)-1) + `)`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get people: %w", err)
	}
	defer func() { _ = rows.Close() }()

	found := make(map[int64]*Person, len(ids))
	for rows.Next() {
		var (
			p       Person
			updated string
		)
		if err := rows.Scan(&p.ID, &p.TMDBPersonID, &p.Name, &p.ProfilePath, &p.Department, &p.Character, &updated); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		if p.UpdatedAt, err = parseStamp(updated); err != nil {
			return nil, fmt.Errorf("parse updated_at for person %d: %w", p.TMDBPersonID, err)
		}
		found[p.TMDBPersonID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate people: %w", err)
	}

	out := make([]*Person, 0, len(found))
	for _, id := range ids {
		if p, ok := found[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// CountPeople returns the number of stored people.
func (s *Store) CountPeople(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM people").Scan(&n); err != nil {
		return 0, fmt.Errorf("count people: %w", err)
	}
	return n, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
