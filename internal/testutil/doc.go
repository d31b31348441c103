// Package testutil provides fixtures shared by the contracts tests.
//
// It offers iterators that record how many items were pulled, so tests can
// assert that validation stays lazy, plus a Caller with a declared arity and
// a set of sample values covering every kind the validators distinguish.
//
// This package is internal and should not be imported by external code.
package testutil
