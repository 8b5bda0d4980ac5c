// Package kozai drives long-duration simulations of a hierarchical triple
// (star, inner planet, distant inclined perturber) with spin/tidal
// evolution, the configuration studied for Lidov-Kozai cycles and
// obliquity excitation.
//
// The pipeline is: [Build] a configured system, then a [Driver] repeatedly
// advances the engine by one macro-step, extracts osculating elements for
// the inner (planet about star) and outer (perturber about inner-pair
// barycenter) orbits, and appends one row per macro-step to a [Recorder].
package kozai
