// Package textenc resolves text encoding identifiers such as "windows-1252"
// or "utf-8" and wraps readers and writers so the rest of fwconv only ever
// handles UTF-8 strings.
//
// Names are resolved against the IANA registry first and the WHATWG encoding
// list second, which covers the spellings commonly found in layout files
// ("latin1", "cp1252", "UTF8").
package textenc
