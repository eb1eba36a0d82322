// Package pharm implements the pharmacodynamic core: nicotine kinetics
// acting on α4β2 receptor pools along two pathways of a simplified
// dopamine/GABA reward circuit.
//
// The package is pure computation. Everything is a function of its inputs:
//
//   - [Params]: per-step configuration (half-life, thresholds, rates)
//   - [ReceptorPool]: three-state fractional pool {basal, activated, desensitized}
//   - [State]: full circuit snapshot with derived drives and outputs
//   - [Step]: the single authoritative state transition for one time delta
//
// # Model
//
// Nicotine decays exponentially toward zero with a configurable half-life.
// Above the activation threshold it moves receptors basal → activated and
// activated → desensitized; desensitized receptors recover back to basal on
// a time constant that slows while nicotine remains present. α4β2 pools on
// DA neurons drive the direct pathway; pools on GABA interneurons drive the
// indirect (disinhibition) pathway. Presynaptic α7 receptors are modeled as
// bare threshold gates on the ACh and Glu drive proxies, with no pool
// kinetics of their own.
//
// All fractional outputs are clamped to [0,1] after every arithmetic
// combination, so the model is total over its declared input domain.
//
// # Thread Safety
//
// Every function in this package is pure and safe for concurrent use. The
// stateful driver lives in the sim package.
package pharm
