// Package kfold builds cross-validation folds that are balanced with respect
// to the response variable.
//
// 🚀 What is a balanced split?
//
//	Plain shuffled K-fold can, by chance, pile high or low responses into one
//	fold and bias the cross-validated error. BalancedKFold draws shuffled
//	K-fold partitions, regresses the mean-centred response on the fold
//	indicator matrix, and keeps drawing until the overall F-test p-value
//	exceeds a threshold, i.e. until fold membership explains (almost) none of
//	the variance in Y (Kohavi, 1995).
//
// ✨ Key features:
//   - bounded rejection sampling (MaxSplits) with fall-back to the best split seen
//   - reproducible draws via an injected *rand.Rand
//   - pluggable balance test (FTester); the default is an OLS F-test
//   - per-candidate hook for metrics, zap logging for the fit report and fallback
//
// ⚙️ Usage:
//
//	opts := kfold.DefaultOptions()
//	opts.NFolds = 4
//	bkf, err := kfold.New(opts)
//	split, err := bkf.Split(y)
//	for train, test := range split.All() {
//	    // fit on train, score on test
//	}
//
// Complexity: O(MaxSplits · N · K²) in the worst case.
package kfold
