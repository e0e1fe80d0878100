// Package build renders per-language copies of JavaScript entry assets.
//
// A pipeline expands the configured entry globs, scans every entry for
// translation markers once, and then renders each entry for each target
// language by splicing replacements into the original bytes:
//
//   - Singular markers collapse to a translated string literal. The source
//     language, and any key a catalog has no translation for, renders the
//     source string itself, so outputs always ship working text.
//   - Plural markers become a self-contained arrow-function IIFE embedding
//     the language's plural forms and selection formula, applied to the
//     original count expression:
//
//     ((n)=>["1 kohde","%{count} kohdetta".replace("%{count}",n)][+(n != 1)])(items.length)
//
//   - Dynamic markers are left untouched.
//
// Everything outside marker byte ranges is copied verbatim, so the source
// language output differs from its input only where markers stood.
//
// Outputs are named by the project filename template and written atomically
// under the output directory, preserving entry structure relative to the
// glob root. Languages build concurrently; a manifest.json records every
// artifact with size and content hash.
package build
