// Package app contains the core application logic. It wires a design
// loader, the provider registry, the generation engine and a row sink
// together, decoupled from any specific entrypoint like a CLI.
package app
