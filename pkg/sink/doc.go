// Package sink writes quasi-clique results.
//
// # Overview
//
// A sink receives one [pipeline.Result] per partition, in input order, and
// serializes it. Two formats are provided:
//
//   - [Text]: one tab-separated line per result
//   - [JSONLines]: one JSON object per result
//
// # Text Format
//
//	graph_id  core_ids  non_core_ids
//
// Id lists are comma-joined in ascending order:
//
//	0	1,2	3,4
//
// In verbose mode three more columns follow: score, density and the number
// of search steps.
//
// # Empty Results
//
// Partitions without a candidate produce no output unless IncludeEmpty is
// set, in which case the id columns are left blank.
//
// # Files
//
// [Open] creates a file sink for a path, with "-" meaning stdout:
//
//	s, err := sink.Open("results.jsonl", sink.FormatJSONLines, sink.Options{})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
package sink
