package models

// Movie is one row of the catalog. Title and ReleaseDay are stored
// normalized (lower-cased, day names without accents).
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	ReleaseYear  int     `json:"release_year"`
	ReleaseMonth int     `json:"release_month"`
	ReleaseDay   string  `json:"release_day"`
	Popularity   float64 `json:"popularity"`
	VoteCount    int     `json:"vote_count"`
	VoteAverage  float64 `json:"vote_average"`
	Budget       float64 `json:"budget"`
	Revenue      float64 `json:"revenue"`
	Return       float64 `json:"return"` // revenue/budget, 0 when budget is 0
	GenreIDs     []int   `json:"genres_id"`
	ActorIDs     []int   `json:"actors_id"`
	DirectorIDs  []int   `json:"directors_id"`
}

// ComputeReturn derives the return ratio the way the dataset does.
func ComputeReturn(budget, revenue float64) float64 {
	if budget <= 0 {
		return 0
	}
	return revenue / budget
}

// Named is an entry of a name<->id directory (genres, actors, directors).
type Named struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
