// Package instance implements C9: loading a static model.Graph from an
// instance source named at the command line — a local directory of CSVs
// or, symmetrically, the same four CSVs fetched over SFTP.
package instance

import "context"

// Table is one parsed CSV: header-less rows of string fields, in file
// order. Every Source returns the same four tables regardless of where
// the bytes came from, so Build's parsing logic never needs to know.
type Table [][]string

// Tables is the four CSVs §6 requires an instance to provide.
type Tables struct {
	Depots    Table
	Customers Table
	Arcs      Table // either arcs.csv (from,to,length) or a distance matrix
	Vehicles  Table
}

// Source fetches the four instance tables for one named instance. Local
// and SFTP-delivered instances both implement it; Build is agnostic to
// which one produced the bytes.
type Source interface {
	Fetch(ctx context.Context, name string) (Tables, error)
}

// Registry maps a source prefix to the Source that handles it. "local" and
// "sftp" are registered by this package's init functions; callers add
// others via Register.
var Registry = map[string]Source{}

func Register(scheme string, src Source) {
	Registry[scheme] = src
}
