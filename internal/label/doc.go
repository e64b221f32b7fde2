// Package label normalizes rich-text label markup.
//
// A label editor emits a full HTML document: doctype, head, an embedded
// stylesheet and a body whose elements carry editor-specific inline
// styles. Normalize reduces such a document to the body's inner markup
// and removes the styling noise, so that only the formatting a label
// actually needs survives (bold, italic, underline, superscript and
// subscript). The result is stable: normalizing an already normalized
// label returns it unchanged.
//
// PlainText returns the text a reader would see, and Digest gives a
// content hash used to detect unchanged labels between runs.
//
// All functions are pure and safe for concurrent use.
package label
