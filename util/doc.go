// Package util holds small parsing helpers shared by the configuration
// and middleware packages.
package util
