// Package sanitizer provides input normalization for layout data.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. Functions handle invalid input gracefully, typically by returning
// empty strings or empty slices rather than errors.
//
// Normalization includes:
//   - Strings: Collapse whitespace, trim leading/trailing spaces
//   - Hall names: Collapse whitespace, keep case so they match stall hall tags exactly
//   - Enum tokens: Trim and upper-case ("food" becomes "FOOD")
//   - Slices: Remove duplicates and empty values after normalization
//   - Numbers: Clamp to valid ranges
package sanitizer
