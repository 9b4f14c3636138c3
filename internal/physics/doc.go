// Package physics holds the material and process constants of the scanning
// model and the explicit lattice transition derived from them.
//
//   - [Params]: physical and dimensionless parameters for one grid size
//   - [Lattice]: the finite-difference heat transition (diffusion, convection
//     toward ambient) applied to a full state vector
//
// The numbers describe a stainless powder bed under a 180 W laser at 37%
// absorptivity. They are a structural scaffold, not a validated solver.
package physics
