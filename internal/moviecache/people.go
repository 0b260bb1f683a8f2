package moviecache

import (
	"encoding/json"
	"strconv"

	"github.com/vmunix/marquee/internal/movie"
)

// KeyPeople holds the person lookup table. It is independent of the movie
// snapshot and survives Clear.
const KeyPeople = "people-cache"

// People returns the cached entries among ids, keyed by TMDB person id.
// Missing ids are absent from the result.
func (a *Adapter) People(ids []int64) map[int64]movie.Person {
	all := a.peopleMap()
	out := make(map[int64]movie.Person, len(ids))
	for _, id := range ids {
		if p, ok := all[id]; ok {
			out[id] = p
		}
	}
	return out
}

// SavePeople merges people into the cache. A newer entry for the same person
// replaces the old one. Entries without a positive id are skipped. The merge
// is dropped with a log line if the result would exceed MaxBytes.
func (a *Adapter) SavePeople(people []movie.Person) {
	if len(people) == 0 {
		return
	}
	a.peopleMu.Lock()
	defer a.peopleMu.Unlock()

	merged := a.peopleMap()
	added := 0
	for _, p := range people {
		if p.TMDBPersonID <= 0 {
			continue
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = a.now().UTC()
		}
		merged[p.TMDBPersonID] = p
		added++
	}
	if added == 0 {
		return
	}

	enc := make(map[string]movie.Person, len(merged))
	for id, p := range merged {
		enc[strconv.FormatInt(id, 10)] = p
	}
	raw, err := json.Marshal(enc)
	if err != nil {
		a.log.Warn("people cache encode failed", "error", err)
		return
	}
	if size := len(KeyPeople) + len(raw); size > a.maxBytes {
		a.log.Warn("people cache write skipped", "error", ErrQuotaExceeded, "bytes", size, "max_bytes", a.maxBytes)
		return
	}
	if err := a.store(map[string][]byte{KeyPeople: raw}); err != nil {
		a.log.Warn("people cache write failed", "error", err)
		return
	}
	a.log.Debug("people cache written", "saved", added, "total", len(merged))
}

// ClearPeople drops every cached person.
func (a *Adapter) ClearPeople() {
	a.peopleMu.Lock()
	defer a.peopleMu.Unlock()
	if err := a.remove(KeyPeople); err != nil {
		a.log.Warn("people cache clear failed", "error", err)
	}
}

// peopleMap decodes the stored table. Unreadable data counts as empty.
func (a *Adapter) peopleMap() map[int64]movie.Person {
	out := make(map[int64]movie.Person)
	vals, err := a.load(KeyPeople)
	if err != nil {
		a.log.Warn("people cache read failed", "error", err)
		return out
	}
	raw, ok := vals[KeyPeople]
	if !ok {
		return out
	}
	var stored map[string]movie.Person
	if err := json.Unmarshal(raw, &stored); err != nil {
		a.log.Warn("people cache corrupt", "error", err)
		return out
	}
	for k, p := range stored {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		out[id] = p
	}
	return out
}
