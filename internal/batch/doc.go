// Package batch drives the sequential harvest loop over a list of URLs.
//
// The Driver filters URLs by host, hands each one to a Processor, isolates
// every per-video failure (including panics) so the loop always continues,
// pauses between network-touching attempts through a Pacer, and collects a
// Report summarising the run.
package batch
