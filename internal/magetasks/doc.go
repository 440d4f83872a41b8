// Package magetasks holds the build, lint and test tasks behind veil's
// Magefile. Each exported task runs go tooling through mage's sh helpers and
// reports progress on a Printer.
package magetasks
