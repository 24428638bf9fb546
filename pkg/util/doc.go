// Package util provides small helpers shared across queuestub packages.
package util
