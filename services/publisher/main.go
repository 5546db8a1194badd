package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/cyclops23/sonar-data-publish/commonGo"
	"github.com/cyclops23/sonar-data-publish/services/publisher/factory"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"
)

const (
	defaultLogsPath      = "logs"
	logFilePrefix        = "publisher"
	logFileLifeSpanInSec = 86400 // 24h
	logFileLifeSpanInMB  = 1024  // 1GB

	// flags with a short alias are looked up by their long name
	verboseFlagName  = "verbose"
	projectsFlagName = "projects"
	fromTimeFlagName = "from-time"
	toTimeFlagName   = "to-time"
)

// appVersion should be populated at build time using ldflags
// Usage examples:
// Linux/macOS:
//
//	go build -v -ldflags="-X main.appVersion=$(git describe --all | cut -c7-32)
var appVersion = "undefined"
var fileLogging commonGo.FileLoggingHandler

var (
	publisherHelpTemplate = `NAME:
   {{.Name}} - {{.Usage}}
USAGE:
   {{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}
   {{if len .Authors}}
AUTHOR:
   {{range .Authors}}{{ . }}{{end}}
   {{end}}{{if .Commands}}
GLOBAL OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}
VERSION:
   {{.Version}}
   {{end}}
`

	log = logger.GetOrCreate("publisher")

	// logLevel defines the logger level
	logLevel = cli.StringFlag{
		Name: "log-level",
		Usage: "This flag specifies the logger `level(s)`. It can contain multiple comma-separated value. For example" +
			", if set to *:INFO the logs for all packages will have the INFO level. However, if set to *:INFO,sonar:DEBUG" +
			" the logs for all packages will have the INFO level, excepting the sonar package which will receive a DEBUG" +
			" log level.",
		Value: "*:" + logger.LogInfo.String(),
	}
	// logFile is used when the log output needs to be logged in a file
	logSaveFile = cli.BoolFlag{
		Name:  "log-save",
		Usage: "Boolean option for enabling log saving. If set, it will automatically save all the logs into a file.",
	}
	// workingDirectory defines a flag for the path for the working directory.
	workingDirectory = cli.StringFlag{
		Name:  "working-directory",
		Usage: "This flag specifies the `directory` where the publisher will store logs.",
		Value: "",
	}
	configFile = cli.StringFlag{
		Name:  "config",
		Usage: "The `filepath` of the TOML configuration file.",
		Value: "./config.toml",
	}
	envFile = cli.StringFlag{
		Name:  "env-file",
		Usage: "The `filepath` of the .env file holding the credentials. Variables already set in the environment win.",
		Value: "./.env",
	}
	verbose = cli.BoolFlag{
		Name:  verboseFlagName + ", v",
		Usage: "Log every call made to the data targets.",
	}
	noKeen = cli.BoolFlag{
		Name:  "no-keen",
		Usage: "Do not publish data to Keen.io.",
	}
	noDatadog = cli.BoolFlag{
		Name:  "no-datadog",
		Usage: "Do not publish data to DataDog.",
	}
	noDatabox = cli.BoolFlag{
		Name:  "no-databox",
		Usage: "Do not publish data to Databox.",
	}
	noSonar = cli.BoolFlag{
		Name:  "no-sonar",
		Usage: "Do not pull data from the Sonar server.",
	}
	withTracker = cli.BoolFlag{
		Name:  "tracker",
		Usage: "Pull velocity data from Pivotal Tracker.",
	}
	projects = cli.StringFlag{
		Name:  projectsFlagName + ", p",
		Usage: "Project filter: comma separated `keys`. Tracker projects can be selected by name or id.",
	}
	fromTime = cli.Int64Flag{
		Name:  fromTimeFlagName + ", f",
		Usage: "`Seconds` ago the metric queries should start. Unset means no lower bound.",
	}
	toTime = cli.Int64Flag{
		Name:  toTimeFlagName + ", t",
		Usage: "`Seconds` ago the metric queries should end.",
		Value: 0,
	}
)

func main() {
	app := cli.NewApp()
	cli.AppHelpTemplate = publisherHelpTemplate
	app.Name = "Sonar data publisher"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Usage = "Pulls quality and velocity metrics and publishes them to the configured analytics backends"
	app.Flags = []cli.Flag{
		logLevel,
		logSaveFile,
		workingDirectory,
		configFile,
		envFile,
		verbose,
		noKeen,
		noDatadog,
		noDatabox,
		noSonar,
		withTracker,
		projects,
		fromTime,
		toTime,
	}
	app.Authors = []cli.Author{
		{
			Name:  "cyclops23",
			Email: "cyclops23@users.noreply.github.com",
		},
	}

	app.Action = run

	defer func() {
		if fileLogging != nil {
			_ = fileLogging.Close()
		}
	}()

	err := app.Run(os.Args)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	saveLogFile := ctx.GlobalBool(logSaveFile.Name)
	workingDir := ctx.GlobalString(workingDirectory.Name)

	err := logger.SetLogLevel(ctx.GlobalString(logLevel.Name))
	if err != nil {
		return err
	}

	fileLogging, err = commonGo.AttachFileLogger(log, defaultLogsPath, logFilePrefix, saveLogFile, workingDir)
	if err != nil {
		return err
	}

	if !check.IfNil(fileLogging) {
		timeLogLifeSpan := time.Second * time.Duration(logFileLifeSpanInSec)
		sizeLogLifeSpanInMB := uint64(logFileLifeSpanInMB)
		err = fileLogging.ChangeFileLifeSpan(timeLogLifeSpan, sizeLogLifeSpanInMB)
		if err != nil {
			return err
		}
	}

	log.Info("starting publisher", "version", appVersion, "pid", os.Getpid())

	opts := runOptions{
		verbose:     ctx.GlobalBool(verboseFlagName),
		noKeen:      ctx.GlobalBool(noKeen.Name),
		noDatadog:   ctx.GlobalBool(noDatadog.Name),
		noDatabox:   ctx.GlobalBool(noDatabox.Name),
		noSonar:     ctx.GlobalBool(noSonar.Name),
		withTracker: ctx.GlobalBool(withTracker.Name),
		projects:    splitProjects(ctx.GlobalString(projectsFlagName)),
		now:         time.Now(),
		toSecsAgo:   ctx.GlobalInt64(toTimeFlagName),
	}
	if ctx.GlobalIsSet(fromTimeFlagName) {
		secs := ctx.GlobalInt64(fromTimeFlagName)
		opts.fromSecsAgo = &secs
	}

	cfg, err := loadConfig(ctx.GlobalString(configFile.Name), ctx.GlobalString(envFile.Name), opts)
	if err != nil {
		return err
	}

	log.Debug("resolved configuration",
		"sonar", cfg.Sonar.Enabled, "tracker", cfg.Tracker.Enabled,
		"keen", cfg.Keen.Enabled, "datadog", cfg.Datadog.Enabled, "databox", cfg.Databox.Enabled,
		"projects", strings.Join(cfg.ProjectsFilter, ","),
		"from", cfg.Window.From, "to", cfg.Window.To)

	handler, err := factory.NewComponentsHandler(cfg)
	if err != nil {
		return err
	}

	runCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return handler.Run(runCtx)
}
