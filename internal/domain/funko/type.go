package funko

import (
	"fmt"
)

// Type is the product line of a Funko.
type Type string

const (
	TypePop            Type = "Pop!"
	TypePopRides       Type = "Pop! Rides"
	TypeVynilSoda      Type = "Vynil Soda"
	TypeVynilGold      Type = "Vynil Gold"
	TypePopTown        Type = "Pop! Town"
	TypePopMovie       Type = "Pop! Movie"
	TypePopAnimation   Type = "Pop! Animation"
	TypePopMusic       Type = "Pop! Music"
	TypePopGames       Type = "Pop! Games"
	TypePopAdIcon      Type = "Pop! Ad Icon"
	TypePopTelevision  Type = "Pop! Television"
	TypePopRocks       Type = "Pop! Rocks"
	TypePopHeroes      Type = "Pop! Heroes"
	TypePopMarvel      Type = "Pop! Marvel"
	TypePopDC          Type = "Pop! DC"
	TypePopDisney      Type = "Pop! Disney"
	TypePopStarWars    Type = "Pop! Star Wars"
	TypePopHarryPotter Type = "Pop! Harry Potter"
	TypePopAnime       Type = "Pop! Anime"
)

var types = []Type{
	TypePop, TypePopRides, TypeVynilSoda, TypeVynilGold, TypePopTown,
	TypePopMovie, TypePopAnimation, TypePopMusic, TypePopGames, TypePopAdIcon,
	TypePopTelevision, TypePopRocks, TypePopHeroes, TypePopMarvel, TypePopDC,
	TypePopDisney, TypePopStarWars, TypePopHarryPotter, TypePopAnime,
}

// Types returns every known product line in declaration order.
func Types() []Type {
	out := make([]Type, len(types))
	copy(out, types)
	return out
}

// Validate reports whether t belongs to the known product lines.
func (t Type) Validate() error {
	for _, known := range types {
		if t == known {
			return nil
		}
	}
	return fmt.Errorf("invalid Funko type: %q", string(t))
}

func (t Type) String() string {
	return string(t)
}

// Genre is the thematic family of a Funko.
type Genre string

const (
	GenreAnimation   Genre = "Animación"
	GenreMoviesTV    Genre = "Películas y TV"
	GenreGames       Genre = "Videojuegos"
	GenreSports      Genre = "Deportes"
	GenreMusic       Genre = "Música"
	GenreAnime       Genre = "Ánime"
	GenreAdIcon      Genre = "Iconos de la publicidad"
	GenreHeroes      Genre = "Héroes"
	GenreMarvel      Genre = "Marvel"
	GenreDC          Genre = "DC"
	GenreDisney      Genre = "Disney"
	GenreStarWars    Genre = "Star Wars"
	GenreHarryPotter Genre = "Harry Potter"
)

var genres = []Genre{
	GenreAnimation, GenreMoviesTV, GenreGames, GenreSports, GenreMusic,
	GenreAnime, GenreAdIcon, GenreHeroes, GenreMarvel, GenreDC,
	GenreDisney, GenreStarWars, GenreHarryPotter,
}

// Genres returns every known genre in declaration order.
func Genres() []Genre {
	out := make([]Genre, len(genres))
	copy(out, genres)
	return out
}

// Validate reports whether g belongs to the known genres.
func (g Genre) Validate() error {
	for _, known := range genres {
		if g == known {
			return nil
		}
	}
	return fmt.Errorf("invalid Funko genre: %q", string(g))
}

func (g Genre) String() string {
	return string(g)
}
