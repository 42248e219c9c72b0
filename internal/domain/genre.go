package domain

// GenreGroup is a named category that matches any of its raw genre tokens.
type GenreGroup struct {
	Name   string   `yaml:"name"`
	Genres []string `yaml:"genres"`
}

// Matches reports whether any token belongs to the group.
func (g GenreGroup) Matches(tokens []string) bool {
	for _, token := range tokens {
		for _, genre := range g.Genres {
			if token == genre {
				return true
			}
		}
	}
	return false
}

// DefaultGenreGroups returns the category columns added by the record cleaner.
func DefaultGenreGroups() []GenreGroup {
	return []GenreGroup{
		{Name: "Action/Adventure", Genres: []string{"Action", "Adventure"}},
		{Name: "Drama", Genres: []string{"Drama"}},
		{Name: "Comedy", Genres: []string{"Comedy"}},
		{Name: "Science Fiction/Fantasy", Genres: []string{"Science Fiction", "Fantasy"}},
		{Name: "Romance", Genres: []string{"Romance"}},
		{Name: "Horror/Thriller/Crime/Mystery", Genres: []string{"Horror", "Thriller", "Crime", "Mystery"}},
	}
}
