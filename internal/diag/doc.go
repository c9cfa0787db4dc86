// Package diag defines the diagnostic data model shared by producers and
// renderers.
//
// # Purpose
//
//   - Provide deterministic, serialisable structures describing findings
//     against source text: severity, code, message, labeled spans, help,
//     causes, and related sub-diagnostics.
//   - Offer light-weight collection utilities (Bag) so producers can emit
//     diagnostics without coupling to storage or formatting layers.
//   - Provide a msgpack codec so whole bags, together with the sources their
//     spans reference, can be moved between tools.
//
// # Scope
//
// Package diag performs no formatting or IO beyond the codec. Rendering
// lives in internal/diagfmt; span arithmetic lives in internal/source.
//
// # Data model
//
// Diagnostic is the central record. Labels are source.LabeledSpan values in
// absolute byte offsets of the referenced file; the first label marked
// primary (or the earliest label) anchors the diagnostic's reported
// position. Related diagnostics form a tree, not a graph: renderers walk it
// recursively with a defensive depth cap.
//
// Renderers are plain values passed explicitly by callers; there is no
// process-wide handler registration anywhere in this module.
package diag
