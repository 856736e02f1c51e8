// Package rdme implements a mesoscopic reaction-diffusion simulation
// engine over discretized spatial meshes.
//
// A Session drives one of six Kernel implementations -- the product of
// three algorithms (deterministic Euler integration, exact Gillespie
// stochastic simulation, and the tau-leap approximation) over two
// topologies (a regular 3D grid and an arbitrary weighted graph) -- and
// exposes the numbered External Interfaces operations (initialize,
// iterate, sample, and the various getters) that a caller drives to
// completion.
package rdme
