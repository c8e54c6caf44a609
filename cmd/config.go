package main

import (
	"context"

	"github.com/desertthunder/spx/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the example configuration to the --config path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("created config file", "path", path)
	return r.writePlainln("Wrote %s. Add your Spotify client ID and secret, or set them in .env.", path)
}
