// Package config defines the format-agnostic design model, along with the
// core interfaces (Loader, Converter) for loading a design and interpreting
// its raw parts.
//
// The `config.Model` is the single source of truth the application turns
// into engine properties. Concrete implementations of the interfaces, such
// as for HCL, are provided in separate packages.
package config
