// Package main hosts the studiolog CLI entrypoint and command graph.
//
// The Cobra-based command tree exposes the run logging helpers to shell
// scripts and launchers: flag files, the charts store of an output directory,
// and a preflight check of the run context. Configuration is resolved once per
// invocation, and commands that touch a run attach the same console and
// experiment-log outputs a training process would.
package main
