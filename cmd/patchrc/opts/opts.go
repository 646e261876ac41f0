package opts

import (
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/files"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands. It is filled in
// before any command runs.
type RootOpts struct {
	Config     *config.Config
	Files      *files.Manager
	Logger     *log.Logger
	UserLogger *log.UserLogger
	DryRun     bool
}

// NewRunner creates an operation runner from the shared options
func (o *RootOpts) NewRunner() (*operation.Runner, error) {
	if o.Config == nil {
		return nil, errors.New("options not initialized")
	}

	return operation.New(operation.Options{
		Config: o.Config,
		Files:  o.Files,
		Logger: o.Logger,
		DryRun: o.DryRun,
	})
}
