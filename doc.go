// Package labutils is a small toolbox of research utilities for
// neuroimaging and machine-learning work.
//
// 🚀 What is inside?
//
//	• kfold/    — BalancedKFold: cross-validation folds balanced on the response
//	• stats/    — OLS with overall F-test, Fisher r↔z transforms
//	• matrix/   — dense float64 matrices, Householder QR, least squares
//	• hrf/      — SPM canonical haemodynamic response, convolution
//	• network/  — participation coefficient of weighted brain networks
//	• pubmed/   — Entrez E-utilities client and MEDLINE record parsing
//	• shell/    — run a shell command, collect trimmed stdout lines
//	• download/ — fetch a URL to a file with bounded retries
//
// Ambient packages: config/ (YAML + env), logging/ (zap), metrics/
// (Prometheus textfile). The labutils command in cmd/labutils wires them all.
//
// Quick example:
//
//	split, err := kfold.BalancedSplit(y, &kfold.Options{NFolds: 4, PThresh: 0.8, MaxSplits: 1000})
//	for train, test := range split.All() {
//	    // fit on train, evaluate on test
//	}
//
//	go install github.com/poldracklab/labutils/cmd/labutils@latest
package labutils
