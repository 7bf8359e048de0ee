// Package shared holds code used across packages that belongs to no single
// layer. Its testutil subpackage provides log capture and proposal sheet
// fixtures for tests; nothing in it may import other internal packages.
package shared
