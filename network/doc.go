// Package network computes node-level statistics of weighted brain networks
// represented as dense connectivity matrices.
//
// Participation measures how evenly a node's connections are spread across
// communities (Guimerà & Amaral, 2005; Brain Connectivity Toolbox
// participation_coef):
//
//	P_i = 1 − Σ_c (k_ic / k_i)²
//
// where k_i is the (out-)strength of node i and k_ic the part of it that lands
// in community c. Nodes without connections get P = 0.
package network
