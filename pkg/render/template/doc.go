// Package template defines renderer-agnostic template interfaces and
// adapters so HTML renderers stay decoupled from a specific engine.
package template
