package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/fyyur/internal/model"
)

// SearchQuery is a parsed search term. When City and State are both set
// the search matches on location only, otherwise on Name only; the two
// modes are never combined.
type SearchQuery struct {
	Name  string
	City  string
	State string
}

// ByLocation reports whether the query selects the (city, state) mode.
func (q SearchQuery) ByLocation() bool {
	return q.City != "" && q.State != ""
}

// ParseSearchTerm interprets a free-text term. "Boston, MA" yields
// City=Boston State=MA; a term that does not split into exactly two
// non-empty comma-separated parts is a name search on the term as given.
func ParseSearchTerm(term string) SearchQuery {
	parts := strings.Split(strings.ReplaceAll(strings.TrimSpace(term), ", ", ","), ",")
	if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		return SearchQuery{City: parts[0], State: parts[1]}
	}
	return SearchQuery{Name: term}
}

// likeContains builds a case-insensitive LIKE pattern matching s anywhere.
// LIKE metacharacters in s are escaped with MySQL's default backslash.
func likeContains(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

// searchEntities runs a search over venues or artists. table is one of the
// package constants and fk the shows column referencing it.
func searchEntities(ctx context.Context, db *sql.DB, table, fk, term string, now time.Time) (model.SearchResult, error) {
	q := ParseSearchTerm(term)
	where := []string{}
	args := []any{now}
	if q.ByLocation() {
		where = append(where, "LOWER(e.city) LIKE ?", "LOWER(e.state) LIKE ?")
		args = append(args, likeContains(q.City), likeContains(q.State))
	} else {
		where = append(where, "LOWER(e.name) LIKE ?")
		args = append(args, likeContains(q.Name))
	}

	query := `SELECT e.id, e.name, COUNT(s.id)
		FROM ` + table + ` e
		LEFT JOIN shows s ON s.` + fk + ` = e.id AND s.start_time > ?
		WHERE ` + strings.Join(where, " AND ") + `
		GROUP BY e.id, e.name
		ORDER BY e.id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return model.SearchResult{}, err
	}
	defer rows.Close()

	res := model.SearchResult{Data: []model.SearchHit{}}
	for rows.Next() {
		var h model.SearchHit
		if err := rows.Scan(&h.ID, &h.Name, &h.NumUpcomingShows); err != nil {
			return model.SearchResult{}, err
		}
		res.Data = append(res.Data, h)
	}
	if err := rows.Err(); err != nil {
		return model.SearchResult{}, err
	}
	res.Count = len(res.Data)
	return res, nil
}
