package postgres

import (
	"fmt"
	"strings"

	"sparkify/internal/schema"
)

// upsertSQL renders the INSERT..SELECT that moves staged rows into the target
// table under the table's conflict policy.
//
//   - ConflictNone:   plain insert (songplays)
//   - ConflictIgnore: ON CONFLICT (key) DO NOTHING; duplicate keys inside the
//     same batch are handled by the same clause
//   - ConflictUpdate: DISTINCT ON (key) ordered by __seq keeps the batch's
//     last occurrence, then ON CONFLICT .. DO UPDATE refreshes UpdateColumns
func upsertSQL(t schema.Table, staging string) string {
	cols := identList(t.Columns)
	target := pgIdent(t.Name)
	src := pgIdent(staging)

	switch t.OnConflict {
	case schema.ConflictIgnore:
		return fmt.Sprintf(
			"INSERT INTO %s (%s) SELECT %s FROM %s ON CONFLICT (%s) DO NOTHING",
			target, cols, cols, src, identList(t.Key),
		)

	case schema.ConflictUpdate:
		sets := make([]string, len(t.UpdateColumns))
		for i, c := range t.UpdateColumns {
			sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", pgIdent(c), pgIdent(c))
		}
		return fmt.Sprintf(
			"INSERT INTO %s (%s) SELECT DISTINCT ON (%s) %s FROM %s ORDER BY %s, __seq DESC ON CONFLICT (%s) DO UPDATE SET %s",
			target, cols, identList(t.Key), cols, src,
			identList(t.Key), identList(t.Key), strings.Join(sets, ", "),
		)

	default:
		return fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", target, cols, cols, src)
	}
}

// pgIdent safely quotes a single identifier for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// identList quotes and comma-joins a column list.
func identList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgIdent(c)
	}
	return strings.Join(quoted, ", ")
}
