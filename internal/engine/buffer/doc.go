// Package buffer provides the logical text store the wrapping engine reads
// from. It indexes lines by delimiter so that line-oriented queries are a
// binary search away, and notifies registered listeners synchronously after
// every mutation.
//
// Offsets and lengths throughout the package are byte offsets into UTF-8
// text. A line is a maximal run of bytes between delimiters; the text after
// the last delimiter is a line too, so a buffer ending in a delimiter has a
// final empty line and an empty buffer has exactly one empty line.
package buffer
