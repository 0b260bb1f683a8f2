package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/marquee/internal/movie"
	"github.com/vmunix/marquee/internal/moviecache"
	"github.com/vmunix/marquee/internal/storeclient"
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one movie",
	Long: `Show the full record of one movie, fetched from the server.
Director and cast names come from the local people cache; names it
does not hold yet are fetched and cached.

Examples:
  marquee show 12           # By catalog ID
  marquee show --tmdb 550   # By TMDB ID`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().Int64("tmdb", 0, "Look up by TMDB ID")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	tmdbID, _ := cmd.Flags().GetInt64("tmdb")
	if tmdbID <= 0 && len(args) == 0 {
		return errors.New("a catalog ID or --tmdb is required")
	}

	client := newClient()
	var (
		d   *movie.Detail
		err error
	)
	if tmdbID > 0 {
		d, err = client.GetMovieByTMDBID(cmd.Context(), tmdbID)
	} else {
		id, perr := strconv.ParseInt(args[0], 10, 64)
		if perr != nil {
			return fmt.Errorf("invalid movie ID: %s", args[0])
		}
		d, err = client.GetMovie(cmd.Context(), id)
	}
	if errors.Is(err, storeclient.ErrNotFound) {
		return errors.New("movie not found")
	}
	if err != nil {
		return err
	}

	log := newLogger(cmd.ErrOrStderr())
	cache, _, err := openCache(log)
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()
	people := resolvePeople(cmd.Context(), cache, client, log, credited(d))

	if jsonOutput {
		printJSON(cmd.OutOrStdout(), detailView{Detail: d, People: people})
		return nil
	}
	printDetail(cmd.OutOrStdout(), d, people)
	return nil
}

// detailView is the JSON shape of show: the movie plus the people it credits.
type detailView struct {
	*movie.Detail
	People []movie.Person `json:"people"`
}

// credited lists directors then cast, without repeats.
func credited(d *movie.Detail) []int64 {
	seen := make(map[int64]bool, len(d.Directors)+len(d.Cast))
	var ids []int64
	for _, id := range append(append([]int64{}, d.Directors...), d.Cast...) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// resolvePeople returns the known people among ids in the given order. The
// cache answers first; the rest are fetched and saved. A failed fetch only
// leaves those names out.
func resolvePeople(ctx context.Context, cache *moviecache.Adapter, client *storeclient.Client, log *slog.Logger, ids []int64) []movie.Person {
	if len(ids) == 0 {
		return []movie.Person{}
	}
	known := cache.People(ids)
	var missing []int64
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		fetched, err := client.GetPeople(ctx, missing)
		if err != nil {
			log.Warn("people lookup failed", "missing", len(missing), "error", err)
		} else {
			cache.SavePeople(fetched)
			for _, p := range fetched {
				known[p.TMDBPersonID] = p
			}
		}
	}

	out := make([]movie.Person, 0, len(ids))
	for _, id := range ids {
		if p, ok := known[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func printDetail(w io.Writer, d *movie.Detail, people []movie.Person) {
	title := d.Title
	if y := d.Year(); y > 0 {
		title = fmt.Sprintf("%s (%d)", title, y)
	}
	fmt.Fprintln(w, title)
	if d.Tagline != "" {
		fmt.Fprintf(w, "  %s\n", d.Tagline)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  ID:       %d (TMDB %d", d.ID, d.TMDBID)
	if d.IMDBID != "" {
		fmt.Fprintf(w, ", IMDb %s", d.IMDBID)
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintf(w, "  Rating:   %.1f (%d votes)\n", d.Rating, d.VoteCount)
	if d.RuntimeMinutes > 0 {
		fmt.Fprintf(w, "  Runtime:  %d min\n", d.RuntimeMinutes)
	}
	fmt.Fprintf(w, "  Genres:   %s\n", joinOrDash(d.Genres))
	if d.Status != "" {
		fmt.Fprintf(w, "  Status:   %s\n", d.Status)
	}
	if u := d.PosterURL("w500"); u != "" {
		fmt.Fprintf(w, "  Poster:   %s\n", u)
	}
	byID := make(map[int64]movie.Person, len(people))
	for _, p := range people {
		byID[p.TMDBPersonID] = p
	}
	var directors []string
	for _, id := range d.Directors {
		if p, ok := byID[id]; ok {
			directors = append(directors, p.Name)
		}
	}
	if len(directors) > 0 {
		fmt.Fprintf(w, "  Director: %s\n", strings.Join(directors, ", "))
	}
	if d.Overview != "" {
		fmt.Fprintf(w, "\n  %s\n", d.Overview)
	}
	var cast []movie.Person
	for _, id := range d.Cast {
		if p, ok := byID[id]; ok {
			cast = append(cast, p)
		}
	}
	if len(cast) > 0 {
		fmt.Fprintln(w, "\n  Cast:")
		for _, p := range cast {
			if p.Character != "" {
				fmt.Fprintf(w, "    %s as %s\n", p.Name, p.Character)
			} else {
				fmt.Fprintf(w, "    %s\n", p.Name)
			}
		}
	}
	if len(d.ScreenshotIDs) > 0 {
		fmt.Fprintf(w, "\n  Screenshots (%d):\n", len(d.ScreenshotIDs))
		for _, id := range d.ScreenshotIDs {
			fmt.Fprintf(w, "    %s\n", d.ScreenshotURL("w780", id))
		}
	}
}
