// Package logs reads the run log file written by the logging package so an
// operator can watch a long batch from another terminal.
package logs
