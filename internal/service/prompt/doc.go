// Package prompt collects installation answers from the operator.
//
// On a terminal questions are asked with huh forms. Without one every
// question silently takes its default, so unattended runs either pass an
// answers file or get a plain installation.
package prompt
