// Package model builds the discrete-time state-space model of the scan game:
//
//	T(k+1) = Ab·T(k) + Bb[:, u(k)]
//	y(k)   = Cb·T(k)
//
// Ab is the identity (no drift between control applications), Bb holds one
// heat-injection column per island, and Cb subtracts the field mean so that
// ‖Cb·T‖ measures non-uniformity rather than temperature.
//
// The magnitude of each Bb column is supplied by an [Influence] strategy.
// [DiffusedPath] (the default) deposits G along the island's serpentine
// path and lets earlier deposits diffuse through the physical lattice;
// [UniformBlock] spreads G evenly over the island.
package model
