package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/marquee/internal/movie"
	"github.com/vmunix/marquee/internal/moviefilter"
	"github.com/vmunix/marquee/internal/provider"
)

// moviesOutput is the --json shape of the movies command.
type moviesOutput struct {
	Movies       []movie.Movie `json:"movies"`
	Total        int           `json:"total"`
	DataVersion  string        `json:"data_version,omitempty"`
	IsUsingCache bool          `json:"is_using_cache"`
	Error        bool          `json:"error"`
}

var moviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "List movies",
	Long: `List movies from the local cache, refreshed from the server when the
catalog has changed.

Examples:
  marquee movies                     # List every movie
  marquee movies -s "matrix"         # Title search, accent and typo tolerant
  marquee movies -g drama -l 10      # First 10 dramas
  marquee movies --no-wait           # Print the cached list without waiting`,
	Args: cobra.NoArgs,
	RunE: runMovies,
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the genres present in the catalog",
	Args:  cobra.NoArgs,
	RunE:  runGenres,
}

func init() {
	moviesCmd.Flags().StringP("search", "s", "", "Filter by title")
	moviesCmd.Flags().StringP("genre", "g", "", "Filter by genre")
	moviesCmd.Flags().IntP("limit", "l", 0, "Maximum number of movies to show")
	moviesCmd.Flags().Bool("no-wait", false, "Print cached movies without waiting for the server")

	rootCmd.AddCommand(moviesCmd)
	rootCmd.AddCommand(genresCmd)
}

// loadMovies mounts a session and returns the list to show. With noWait a
// cached list is returned immediately; otherwise it waits until the server
// has confirmed or replaced it.
func loadMovies(cmd *cobra.Command, s *session, noWait bool) (provider.State, error) {
	ctx := cmd.Context()
	s.provider.Mount(ctx)

	st := s.provider.MovieList()
	if !noWait || !st.HasData() {
		var err error
		st, err = s.provider.WaitSettled(ctx)
		if err != nil {
			return st, err
		}
	}
	if !st.HasData() {
		return st, fmt.Errorf("could not load movies from %s", serverURL)
	}
	if st.Error {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not reach %s, showing cached movies\n", serverURL)
	}
	return st, nil
}

func runMovies(cmd *cobra.Command, _ []string) error {
	search, _ := cmd.Flags().GetString("search")
	genre, _ := cmd.Flags().GetString("genre")
	limit, _ := cmd.Flags().GetInt("limit")
	noWait, _ := cmd.Flags().GetBool("no-wait")

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	st, err := loadMovies(cmd, s, noWait)
	if err != nil {
		return err
	}

	if noWait {
		// let the check running behind the printed list reach the cache
		defer func() { _, _ = s.provider.WaitSettled(cmd.Context()) }()
	}

	movies := moviefilter.Apply(st.Movies, moviefilter.Filter{Search: search, Genre: genre, Limit: limit})

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, moviesOutput{
			Movies:       movies,
			Total:        len(st.Movies),
			DataVersion:  st.DataVersion,
			IsUsingCache: st.IsUsingCache,
			Error:        st.Error,
		})
		return nil
	}

	if len(movies) == 0 {
		if len(st.Movies) == 0 {
			fmt.Fprintln(out, "No movies in catalog.")
		} else {
			fmt.Fprintln(out, "No movies match.")
		}
		return nil
	}
	printMovieList(out, movies, st)
	return nil
}

func printMovieList(w io.Writer, movies []movie.Movie, st provider.State) {
	source := "live"
	if st.IsUsingCache {
		source = "cached"
	}
	fmt.Fprintf(w, "Movies (%d of %d, %s):\n\n", len(movies), len(st.Movies), source)
	fmt.Fprintf(w, "  %-6s %-40s %-4s %-6s %s\n", "ID", "TITLE", "YEAR", "RATING", "GENRES")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 80))

	for i := range movies {
		m := &movies[i]
		year := "-"
		if y := m.Year(); y > 0 {
			year = fmt.Sprintf("%d", y)
		}
		fmt.Fprintf(w, "  %-6d %-40s %-4s %-6.1f %s\n",
			m.ID,
			truncate(m.Title, 40),
			year,
			m.Rating,
			joinOrDash(m.Genres))
	}
}

func runGenres(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	st, err := loadMovies(cmd, s, false)
	if err != nil {
		return err
	}

	genres := moviefilter.Genres(st.Movies)
	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, genres)
		return nil
	}
	for _, g := range genres {
		fmt.Fprintln(out, g)
	}
	return nil
}
