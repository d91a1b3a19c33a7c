// Package logging provides the process-wide structured logger.
//
// It wraps [log/slog] with a single global logger that is configured once
// with Init and retrieved with GetLogger. If GetLogger is called first, a
// default stderr text logger at INFO is created lazily.
//
//	log := logging.WithTable("orders")
//	log.Info("table created", "row_len", 24)
package logging
