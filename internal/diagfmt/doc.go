// Package diagfmt turns diagnostics into human and machine readable
// output. The graphical renderer draws annotated source snippets, the
// narratable renderer speaks the same facts as prose, and the JSON and
// short forms serve tooling and terse logs. All renderers share the
// window extraction and column measurement in this package.
package diagfmt
