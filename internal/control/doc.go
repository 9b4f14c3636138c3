// Package control derives the greedy expert policy from a state-space model.
//
// [Precompute] evaluates, once per model,
//
//	Lambda0 = diag(Bbᵗ·Cb·Bb)
//	Lambda1 = 2·Bbᵗ·Cb·Ab
//
// so that Lambda0[k] + (Lambda1·T)[k] is the first-order estimate of how much
// applying control k to state T raises ‖Cb·T‖². [Expert] picks the cheapest
// control whose island is still unscanned. It looks one step ahead only.
package control
