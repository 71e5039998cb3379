package operations

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/groundline/todoserv"
	"github.com/groundline/todoserv/rest/data"
	"github.com/groundline/todoserv/rest/route"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/grip/recovery"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Service returns the command tree for running todoserv services.
func Service() cli.Command {
	return cli.Command{
		Name:  "service",
		Usage: "run todoserv services",
		Subcommands: []cli.Command{
			startWebService(),
		},
	}
}

func startWebService() cli.Command {
	return cli.Command{
		Name:  "web",
		Usage: "run the todo REST API",
		Flags: serviceConfigFlags(),
		Action: func(c *cli.Context) error {
			confPath := c.String(confFlagName)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			defer recovery.LogStackTraceAndExit("todoserv web service")

			settings, err := todoserv.NewSettings(confPath)
			if err != nil {
				return errors.Wrap(err, "loading settings")
			}

			if settings.LogLevel != "" {
				sender := grip.GetSender()
				info := sender.Level()
				info.Threshold = level.FromString(settings.LogLevel)
				grip.Warning(errors.Wrap(sender.SetLevel(info), "setting log level"))
			}

			env, err := todoserv.NewEnvironment(ctx, settings)
			if err != nil {
				return errors.Wrap(err, "configuring application environment")
			}
			defer func() {
				grip.Error(errors.Wrap(env.Close(ctx), "closing application environment"))
			}()

			app := route.AttachHandler(data.NewDBTodoConnector(env))
			if err := app.SetPort(settings.Port); err != nil {
				return errors.Wrapf(err, "setting service port to %d", settings.Port)
			}

			go listenForSIGTERM(cancel)

			grip.Notice(message.Fields{
				"message": "starting web service",
				"port":    settings.Port,
				"db":      settings.Database.DB,
			})

			return errors.Wrap(app.Run(ctx), "running web service")
		},
	}
}

func listenForSIGTERM(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGTERM, os.Interrupt)
	<-sigChan
	grip.Info("received signal, terminating web service")
	cancel()
}
