// Package sim implements the gravitational integration engine.
//
// A [Simulation] owns the mutable dynamical state (bodies, spins, clock)
// and advances it to requested target times with adaptive Dormand-Prince
// substeps. Callers treat [Simulation.Advance] as a synchronous black box:
// the engine decides how the interval is subdivided, the caller only reads
// state at the boundary.
//
//   - [Body]: mass, radius, position, velocity, per-body scalar parameters
//   - [Force]: additional derivative contributions (see the spin package)
//   - [IntegrationError]: fatal engine failure with time and body context
//
// Simulations are not safe for concurrent use.
package sim
