// Package export writes a solved grid to disk.
//
// The text format has one line per row; every value is printed with six
// decimal places and followed by a single space. SaveHeatmap renders the
// same grid as a PNG heat map with gonum/plot.
package export
