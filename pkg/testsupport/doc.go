// Package testsupport holds helpers shared by the package tests: golden file
// handling and translator doubles.
package testsupport
