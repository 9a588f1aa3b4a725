// Package sandhi builds sandhi-splitting training data from DCS-style
// CoNLL-U treebanks.
//
// Each corpus file is read line by line; multiword tokens, their sub-tokens'
// Unsandhied forms and elision-marked tokens are reassembled into
// (word, split) pairs, where split is the '+'-joined sequence of pre-sandhi
// forms. Both columns are transliterated (IAST to Devanagari by default).
//
// # Quick Start
//
//	ex, err := sandhi.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := ex.ExtractCorpus(ctx, "dcs", func(row sandhi.Row) error {
//	    fmt.Println(row.Word, row.Split)
//	    return nil
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Number of entries: %d\n", res.Rows)
//
// # Failure Isolation
//
// A file that cannot be read or transliterated is reported through the
// logger and RunResult.Failed and contributes no rows; the run continues
// with the next file.
//
// # Thread Safety
//
// Extractor holds no per-run state and is safe for concurrent use. Each
// call to ExtractReader runs its own reconstructor.
package sandhi
