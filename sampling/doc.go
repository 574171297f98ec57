// Package sampling assigns qualifying entities of a primary table to disjoint,
// seeded random partitions.
//
// Thresholds turns a partition spec (fractions such as [0.01, 0.05]) into
// cumulative thresholds ([0.01, 0.06]). The Assigner then scans the primary
// table once: each row whose flag column is true draws a uniform value u and
// joins the first partition i with u < threshold[i]. Rows that are not flagged
// consume no draw; qualifiers whose draw exceeds the last threshold join no
// partition. The result is a frozen registry.Registry.
//
// With the default MT19937 strategy and the same seed and row order, the
// partitions equal those produced by a Python tool calling random.random() in
// the same loop.
package sampling
