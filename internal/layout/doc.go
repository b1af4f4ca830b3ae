// Package layout loads and validates fixed-width column layouts.
//
// A layout file is a JSON object naming the columns, their widths (as
// strings, in the "Offsets" array), the text encodings of the fixed-width and
// delimited sides, and whether a header line is written. Every top-level value
// must be a string or a list of strings; anything else is rejected before the
// layout is used. Column order is significant: it fixes both the byte layout
// of fixed-width lines and the field order of delimited rows.
package layout
