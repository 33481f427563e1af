package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	return newApp().Run(args)
}

func newApp() *cli.App {
	app := &cli.App{
		Name:  "modctl",
		Usage: "operate Moderation contract of the Neo blockchain",
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    rpcFlag,
			Usage:   "network address of the Neo RPC server",
			EnvVars: []string{"MODERATION_RPC"},
		},
		&cli.StringFlag{
			Name:    contractFlag,
			Usage:   "address of the Moderation contract (Neo address or LE hex)",
			EnvVars: []string{"MODERATION_CONTRACT"},
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "enable debug logging",
			EnvVars: []string{"MODERATION_DEBUG"},
		},
	}

	app.Commands = []*cli.Command{
		deployCmd,
		contentCmd,
		appealCmd,
		reputationCmd,
		stakeCmd,
		categoryCmd,
		dumpCmd,
		monitorCmd,
	}

	return app
}

// newLogger returns development logger writing to stderr if debug is set and
// production one otherwise.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func loggerFromContext(cctx *cli.Context) (*zap.Logger, error) {
	log, err := newLogger(cctx.Bool("debug"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}
