// Package table provides the Parquet I/O used by partition passes.
//
// A Reader streams a table as a lazy, single-pass sequence of row batches. A
// WriterSet owns the N output files of one pass and closes each exactly once.
// Column helpers resolve identifier and flag columns against a file schema and
// extract their values from rows without materializing whole columns.
//
// Basic usage:
//
//	r, err := table.Open("in/papers.parquet", table.WithBatchSize(1<<20))
//	if err != nil { /* handle */ }
//	defer r.Close()
//
//	ws, err := table.OpenWriterSet("out/papers.parquet", 2, r.Schema())
//	if err != nil { /* handle */ }
//	defer ws.Close()
//
//	for {
//	    rows, err := r.Next(ctx)
//	    if errors.Is(err, io.EOF) { break }
//	    ...
//	}
package table
