// Package analysis measures integrator behaviour on whole trajectories.
//
//   - [Convergence]: global error against an exact solution for a ladder
//     of dyadic steps, and the observed order of accuracy
//   - [LyapunovExponent]: largest Lyapunov exponent via renormalised
//     trajectory separation
//
// # Order of Accuracy
//
// Halving dt divides the global error of an order-p stepper by 2^p:
//
//	study := analysis.Convergence(problem, factory, analysis.ConvergenceOptions{
//	    MinExp: 2, MaxExp: 10, Checkpoints: 3,
//	})
//	fmt.Println(study.MeanOrder()) // ~4 for RK4
package analysis
