// Package view renders session state for a terminal and drives a
// controller from line-oriented input.
package view
