package opts

import (
	"github.com/lablink/datasync/pkg/settings"
	"github.com/lablink/datasync/pkg/status"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Settings *settings.Settings
	Printer  *status.Printer
}
