// Package partitioner streams one table into per-partition output files.
//
// A Partitioner routes every row of an input table to the output file of the
// registry partition containing the row's identifier, or drops it when no
// partition does. Rows are read in bounded batches, so memory stays
// proportional to the batch size regardless of table size. Within each output
// file rows keep their input order.
//
// All N output writers are opened after the schema has been validated and are
// closed exactly once when the pass ends, whether it succeeds, fails or is
// cancelled.
package partitioner
