package operations

import "github.com/urfave/cli"

const confFlagName = "conf"

func serviceConfigFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:  "conf, config, c",
		Usage: "path to the service configuration file; defaults apply when unset",
	})
}
