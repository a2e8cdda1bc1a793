// Package main hosts the ytharvest CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration, applies per-run flag overrides,
// and hands a fully wired batch driver the URLs from the input sheet. Status,
// configuration scaffolding, and a standalone subtitle-to-text converter live
// alongside "run" so operators can diagnose a machine before starting a long
// batch.
//
// Keep this package lean: behavior belongs in the internal packages, and
// commands here only wire them together and render results.
package main
