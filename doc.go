// Package montecarlo provides the engine behind the outlook of an investment
// portfolio: it simulates how the portfolio value may evolve and summarizes
// the distribution of outcomes for a report audience.
//
// The engine is made of small, stateless stages:
//   - Path simulation: capital trajectories under a Geometric Brownian Motion
//     with monthly steps and a pinned, request scoped random generator.
//   - Percentile analysis: cross-sectional percentiles at every month and an
//     extended set of ranks at the horizon.
//   - Return metrics: the annualized compound growth rate (CAGR) of every path.
//   - Distribution binning: a normalized histogram of the CAGR outcomes.
//   - Tail-risk annotation: qualitative historical context attached to the
//     lowest percentile scenarios, driven by a configurable narrative.
//
// NewReport chains all the stages and returns a single typed Report. Nothing in
// this package performs I/O: market data calibration lives in the marketdata
// package and rendering in the renderer package.
//
// This package serves as the foundational logic for the `mcs` command-line
// tool and its HTTP handler.
package montecarlo
