// Package scan extracts translation marker calls from JavaScript and
// TypeScript sources.
//
// Sources are parsed with tree-sitter, so markers are found by walking the
// AST rather than by pattern matching: strings that merely contain "__(" and
// calls inside comments are never picked up. A marker is a call expression
// whose callee is one of the configured marker identifiers, either bare
// (__("Hello world")) or the property of a member expression
// (i18n.__("Hello world")).
//
// Singular markers take the message as their first argument, plural markers
// take the singular form, the plural form and a count expression:
//
//	__("Hello world")
//	__n("One item", "%{count} items", items.length)
//
// Arguments must be plain string literals (template literals without
// substitutions count). Anything else yields a marker with Dynamic set: the
// check command reports those, the build leaves them untouched.
//
// Every marker carries the byte range of the whole call expression, which is
// what the build pipeline splices replacements into.
package scan
