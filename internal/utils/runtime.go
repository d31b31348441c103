package utils

import (
	"runtime"
	"strings"
)

func runtimeFunc(pc uintptr) string {
	f := runtime.FuncForPC(pc)
	if f == nil {
		return ""
	}
	return f.Name()
}

// ShortName trims the package path from a qualified function name:
// "github.com/acme/pkg.(*T).Add" becomes "Add". Closures keep their
// enclosing function, so "github.com/acme/pkg.run.func1" becomes
// "run.func1".
func ShortName(qualified string) string {
	name := qualified
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")

	parts := strings.Split(name, ".")
	start := len(parts) - 1
	for start > 1 && closureSegment(parts[start]) {
		start--
	}
	return strings.Join(parts[start:], ".")
}

// IsAnonymous reports whether a name returned by ShortName belongs to a
// function literal.
func IsAnonymous(short string) bool {
	parts := strings.Split(short, ".")
	last := len(parts) - 1
	for last > 0 && isDigits(parts[last]) {
		last--
	}
	return isClosureName(parts[last])
}

// closureSegment matches the segments the compiler appends for function
// literals: "func1", the nesting index "2" in "func1.2", and the empty
// segment of "glob..func1".
func closureSegment(s string) bool {
	return s == "" || isDigits(s) || isClosureName(s)
}

func isClosureName(s string) bool {
	return strings.HasPrefix(s, "func") && isDigits(s[len("func"):])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
