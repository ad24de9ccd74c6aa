// Package stats holds the small statistical routines shared by labutils:
// an ordinary-least-squares fit with its overall F-test, and the Fisher
// r-to-z transform pair.
//
// The OLS fit mirrors what regression packages report for a design with an
// implicit intercept: when the column space of X contains the constant
// vector (a one-hot fold or group indicator does), the total sum of squares
// is centred and the model degrees of freedom are rank−1. The F-test p-value
// is the upper tail of F(DFModel, DFResid).
//
//	fit, err := stats.OLS(X, y)
//	if err != nil { ... }
//	fmt.Println(fit.FPValue)
//	fmt.Println(fit.Summary())
package stats
