// Package hclutil holds the small HCL helpers the manifest loader and the
// registry share: block lookup, option type keywords, the evaluation
// context predicates run in, and the reference scan that rejects unknown
// variables and functions at load time.
package hclutil
