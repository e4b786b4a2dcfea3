// Package format turns resolved context values into display strings.
package format
