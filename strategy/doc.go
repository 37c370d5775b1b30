// Package strategy implements the strategy engine: four interchangeable
// algorithms that combine the output of several agents into one
// orchestration result.
//
//   - collaborative: architect designs, developer and reviewer iterate until
//     the reviewer approves or the round limit is hit, architect synthesizes
//   - sequential: every agent refines the shared conversation in turn
//   - parallel: independent fan-out, first agent merges the answers
//   - competitive: independent fan-out, last agent judges a winner
//
// Variants are selected by a pure lookup on core.StrategyKind. Fan-out calls
// fail independently; ordered calls abort the run on the first failure.
package strategy
