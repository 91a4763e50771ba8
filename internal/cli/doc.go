// Package cli builds the datagridgo command tree with cobra. It turns flags
// into an app.Config, runs the selected command and maps failures to process
// exit codes through ExitError.
package cli
