package repositories

import (
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
)

var SqBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var ErrBadQuery = errors.New("bad query")

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains returns an ILIKE pattern matching s anywhere in the column.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
