// Package heatmap turns a pre-computed table of TRON USDT merchant wallets
// into the aggregates behind the global merchant heatmap dashboard.
//
// The merchant identification itself happens offline; this package only
// consumes its output, a CSV file with one row per merchant address. The
// core functionalities are:
//   - Dataset Loading: validating the merchant CSV, failing fast on missing
//     files or columns, and enriching every record with its activity and
//     volume percentiles.
//   - Reference Data: an immutable table of country crypto-adoption rates and
//     a partition of those countries into the three coarse regions used by
//     the offline process.
//   - Regional Aggregation: distributing each region's merchant count across
//     its countries, weighted by adoption rate, and projecting the sample to
//     a network-wide estimate with a fixed multiplier.
//   - Statistical Derivations: payment size histogram, activity bands,
//     peak hour distribution per region and emerging-market share.
//   - Export: the address/region table as CSV or spreadsheet.
//
// Everything is recomputed from the CSV on each run. The results are bundled
// in a [Dashboard], which is what the renderer and the `tmh` command consume.
package heatmap
