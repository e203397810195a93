// Package content decodes and encodes lesson content.
//
// A lesson is an ordered list of content items. Each item carries a Data
// payload, which is one of a closed set of variants: a Page of Blocks, a
// Question, or one of the legacy Text, LegacyImage and LegacyInteractive
// variants. Rich text is carried as ordered Segments.
//
// Decoding is total. Malformed or unknown payloads degrade to a placeholder
// (an empty Text for items, a Divider for blocks) instead of failing the
// lesson, so older clients keep working when newer content kinds ship. Only
// a lesson without its own identity fails to decode.
package content
