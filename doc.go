// Package k4 turns a brokerage trade-execution export into the entries of
// the Swedish K4 capital-gains form and into the SRU submission files the
// tax agency accepts electronically.
//
// The pipeline is a single-pass batch transform: raw trades are converted
// to SEK, classified (ordinary closings versus stock deliveries caused by
// option exercise or assignment), aggregated per instrument label, and
// finally partitioned and paginated onto fixed-capacity K4 forms.
//
// The whole input is validated before any output is produced: a missing
// column or a missing exchange rate aborts the run. Past that point a
// failure to pair a stock delivery with its option leg degrades to the
// standard formula instead of aborting, because a filing must still be
// produced for ambiguous rows.
package k4
