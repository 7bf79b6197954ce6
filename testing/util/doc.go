// Package util contains generators of consensus objects for tests.
package util
