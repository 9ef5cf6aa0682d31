// Package openapi exposes the public contracts for the document loading and
// parsing stages of the form pipeline. Implementations live under
// internal/openapi so the kin-openapi dependency stays hidden from consumers.
package openapi
