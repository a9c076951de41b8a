// Package insights implements the PJPA expense anomaly detectors.
//
// Every detector follows the same shape: take one or more master tables,
// normalise the join keys, join reference data, compute per-entity or
// per-group statistics, apply a threshold or classification rule, sort, and
// emit fixed-column report sheets. A Generator returns the sheets as
// Outputs; WriteOutputs turns them into workbooks.
//
// The Catalog lists the output ids clients select. Two outputs
// (PJPA32_HOL and PJPA32_WE) come from one generator, so Resolve maps a
// selection to the set of generators to run.
//
// # Statistical core
//
// PJPA28 applies Benford's Law to approved amounts. For first digits the
// expected share of digit d is log10(1+1/d); for second digits it is the sum
// over k=1..9 of log10(1+1/(10k+d)); for first-two-digit pairs it is
// log10(1+1/d) for d in 10..99. Each digit gets a Z-score
//
//	z = (p - P) / sqrt(P(1-P)/N)
//
// and the three pairs with the largest Z-score select the anomaly rows.
package insights
