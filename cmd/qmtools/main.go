// Package main provides the entry point for the qmtools CLI.
//
// qmtools fetches image quality metrics (IQMs) from the MRIQC Web API,
// normalizes MRIQC group files into traffic-light reports, and compares
// fetched records against a group.
//
// Usage:
//
//	qmtools fetch -m bold -n 500 -q query.txt
//	qmtools traffic -m T1w group_T1w.tsv
//	qmtools compare fetched/bold_20260301_120000-000000.tsv group_bold.tsv
//
// See --help for all available options.
package main

// main is the entry point for qmtools.
func main() {
	Execute()
}
