package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump is the loggable view of an error chain. Postgres fields come
// from whichever driver produced the error; code, constraint and detail
// identify the offending statement in this schema, so the remaining driver
// fields are not carried.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
}

// Dump flattens err into an ErrorDump for structured logging.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		d.setPG(pgxErr.Code, pgxErr.ConstraintName, pgxErr.Detail, pgxErr.Message)
		return d
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		d.setPG(string(pqErr.Code), pqErr.Constraint, pqErr.Detail, pqErr.Message)
	}

	return d
}

func (d *ErrorDump) setPG(code, constraint, detail, message string) {
	d.PGCode = code
	d.PGConstraint = constraint
	d.PGDetail = detail
	d.PGMessage = message
}
