// Package lint implements the translation checks behind the check command.
//
// Rules cover marker/catalog coverage in both directions, catalog hygiene
// (duplicate keys, empty and fuzzy entries, plural arity) and hardcoded
// non-Latin copy in sources. Findings render as text or JSON; severity
// drives the exit code.
package lint
