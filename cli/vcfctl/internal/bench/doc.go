// Package bench measures query latency of variant databases against the
// prepared VCF data.
//
// A Target answers the twelve query shapes (lookup by id, position, rsID,
// gene, ranges, transcript, consequence, quality and frequency filters). Each
// query runs a number of warmup iterations, then measured iterations whose
// wall-clock latency is summarized and written to CSV. Errors on individual
// iterations are logged and skipped.
package bench
