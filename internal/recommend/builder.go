package recommend

import (
	"sort"

	"moviehub/pkg/models"
)

// FeatureWeights scales the one-hot columns of each attribute group.
type FeatureWeights struct {
	Genre    float64
	Actor    float64
	Director float64
}

func DefaultFeatureWeights() FeatureWeights {
	return FeatureWeights{Genre: 1.0, Actor: 0.5, Director: 0.75}
}

// BuildMatrix derives a weighted one-hot matrix from the movies' genre,
// cast and crew ids. Movies with none of the three are left out, so
// they later yield "insufficient information". Rows hold only the
// movie's own columns, so memory grows with the number of credits, not
// with movies times vocabulary.
func BuildMatrix(movies []models.Movie, w FeatureWeights) (*Matrix, error) {
	type column struct {
		group int
		id    int
	}
	groups := [3]func(models.Movie) []int{
		func(m models.Movie) []int { return m.GenreIDs },
		func(m models.Movie) []int { return m.ActorIDs },
		func(m models.Movie) []int { return m.DirectorIDs },
	}
	weights := [3]float64{w.Genre, w.Actor, w.Director}

	seen := make(map[column]struct{})
	var cols []column
	for _, m := range movies {
		for g, get := range groups {
			if weights[g] == 0 {
				continue
			}
			for _, id := range get(m) {
				c := column{g, id}
				if _, ok := seen[c]; !ok {
					seen[c] = struct{}{}
					cols = append(cols, c)
				}
			}
		}
	}
	sort.Slice(cols, func(i, j int) bool {
		if cols[i].group != cols[j].group {
			return cols[i].group < cols[j].group
		}
		return cols[i].id < cols[j].id
	})
	colIndex := make(map[column]int, len(cols))
	for i, c := range cols {
		colIndex[c] = i
	}

	var ids []int
	var rows [][]Feature
	for _, m := range movies {
		var row []Feature
		for g, get := range groups {
			if weights[g] == 0 {
				continue
			}
			for _, id := range get(m) {
				row = append(row, Feature{Col: colIndex[column{g, id}], Val: weights[g]})
			}
		}
		if len(row) == 0 {
			continue
		}
		sort.Slice(row, func(a, b int) bool { return row[a].Col < row[b].Col })
		row = dedupe(row)

		ids = append(ids, m.ID)
		rows = append(rows, row)
	}
	return newMatrix(ids, rows, len(cols))
}

// dedupe drops repeated columns from a sorted row, which happen when a
// movie lists the same person twice.
func dedupe(row []Feature) []Feature {
	out := row[:1]
	for _, f := range row[1:] {
		if f.Col != out[len(out)-1].Col {
			out = append(out, f)
		}
	}
	return out
}
