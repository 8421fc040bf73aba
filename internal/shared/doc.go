// Package shared holds code used across packages that belongs to no single
// layer.
//
// The testutil subpackage provides the log capture handler and dataset
// fixture writers used by package tests:
//
//	logger, logs := testutil.NewTestLogger(t)
//	path := testutil.WriteFauxDataset(t, testutil.TwoRowDataset...)
//
// Nothing here may import other internal packages.
package shared
