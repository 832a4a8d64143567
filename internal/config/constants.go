package config

import (
	"strconv"
	"strings"
)

// SourceFileExt is the canonical Vela source file extension.
const SourceFileExt = ".vela"

// ConfigFileName is the project configuration file read by Load.
const ConfigFileName = "vela.yaml"

// IsTestMode indicates if the program is running in test mode.
// It is false unless a caller assigns it; no velac command sets it.
var IsTestMode = false

// Built-in type names. The unifier compares constructor names against
// these constants, so every collaborator must use them verbatim.
const (
	IntTypeName    = "Int"
	FloatTypeName  = "Float"
	StringTypeName = "String"
	CharTypeName   = "Char"
	BoolTypeName   = "Bool"
	ListTypeName   = "List"
)

// TuplePrefix prefixes the canonical tuple constructor names
// (Tuple2, Tuple3, ...).
const TuplePrefix = "Tuple"

// MaxComparableTuple is the largest tuple arity admitted into the
// Comparable class. This is a language design limit, not an
// implementation artifact.
const MaxComparableTuple = 6

// TupleName returns the canonical constructor name for an n-tuple.
func TupleName(n int) string {
	return TuplePrefix + strconv.Itoa(n)
}

// IsTuple reports whether name is a canonical tuple constructor name.
func IsTuple(name string) bool {
	rest, ok := strings.CutPrefix(name, TuplePrefix)
	if !ok || rest == "" {
		return false
	}
	n, err := strconv.Atoi(rest)
	return err == nil && n >= 2
}

// TupleArity returns the arity encoded in a canonical tuple name,
// or 0 if name is not a tuple constructor.
func TupleArity(name string) int {
	if !IsTuple(name) {
		return 0
	}
	n, _ := strconv.Atoi(name[len(TuplePrefix):])
	return n
}
