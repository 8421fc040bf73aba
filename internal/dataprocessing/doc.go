// Package dataprocessing computes aggregate statistics over validated
// fauxness datasets.
//
// A Summarizer refuses to read a file whose most recent validation did not
// succeed. Otherwise it loads the whole file afresh and reports the row count,
// min/max/mean/sample standard deviation of fauxness and the number of rows
// per category_guess value:
//
//	summarizer := dataprocessing.NewSummarizer(logger, registry, dataprocessing.DefaultSummarizerConfig())
//	summary, err := summarizer.Summarize(ctx, "data/file_1.faux")
//	if errors.Is(err, apperrors.ErrNotValidated) {
//	    // validate first
//	}
package dataprocessing
