// Package testutil provides deterministic helpers shared by the test suites
// and the scenario harness. Rule set fixtures live in testutil/fixtures.
package testutil

import (
	"io"
	"log/slog"
)

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
