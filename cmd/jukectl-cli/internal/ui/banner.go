// Package ui implements the CLI remote's terminal output: a plain ASCII-art
// startup banner printed to stderr, supplementing spec.md §12 (the original
// Rust CLI's banner feature, dropped by the distillation), and a logrus
// logger for error lines. Command results are printed by the caller as
// indented JSON, not through this package.
package ui

import (
	"github.com/sirupsen/logrus"
)

// Banner prints a short startup banner identifying the CLI remote.
func Banner() {
	const art = `
       __       __                  __  .__
      |__|__ __|  | __ ____   _____/  |_|  |
      |  |  |  \  |/ // __ \_/ ___\   __\  |
      |  |  |  /    < \  ___/\  \___|  | |  |__
  /\__|  |____/|__|_ \\___  >\___  >__| |____/
  \______|          \/   \/    \/
`
	println(art)
}

// Log is the CLI's shared logrus logger, configured for readable terminal
// output rather than the server's structured JSON (the server and CLI are
// separate binaries with separate logging concerns, per DESIGN.md).
var Log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: false,
		DisableQuote:  true,
	})
	return l
}
