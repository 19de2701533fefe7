// Package main hosts the envoi CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into transcription and
// translation executions, execution inspection, bulk copy jobs and local
// history queries. It resolves configuration once, builds the AWS clients
// lazily and injects a single structured logger into every component.
//
// Keep this package lean: new behaviour belongs in the internal packages and
// is surfaced here through dedicated commands or flags.
package main
