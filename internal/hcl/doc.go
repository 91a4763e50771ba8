// Package hcl loads design files written in HCL into the format-agnostic
// config.Model and implements config.Converter for provider options and
// weighted literals.
package hcl
