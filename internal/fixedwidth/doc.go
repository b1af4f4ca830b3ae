// Package fixedwidth renders records into fixed-width text lines and slices
// fixed-width lines back into delimited rows.
//
// A Codec owns one record buffer and one header flag. Update merges values
// into the buffer, so keys a caller does not resend keep their previous value;
// callers that need independent records must supply every column each time or
// call Reset. RenderLine formats every column once, validates the formatted
// strings against the declared widths, and only then pads and joins them. A
// line that fails validation produces no output and does not consume the
// header. A Writer encodes each rendered line in full before writing it, so a
// rune the target charset lacks fails the line without emitting any of it.
//
// Floats print as the shortest round-trip decimal with at least one fractional
// digit ("1.0", "0.0001"), switching to exponent form below 1e-4 or from 1e16
// upward ("1e-05", "1e+16").
//
// Widths are counted in runes, not bytes. Under a multi-byte target encoding
// the encoded line can therefore be longer than the declared line width.
//
// The parser ends lines at "\n", "\r\n", "\r" or the layout's line
// terminator. It joins sliced fields with a bare comma and no quoting, so a
// value that itself contains a comma is indistinguishable from a field
// separator in the delimited output.
package fixedwidth
