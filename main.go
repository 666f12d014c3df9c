package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gravitational/hrmtest/driver"
	"github.com/gravitational/hrmtest/e2e/framework"
	"github.com/gravitational/hrmtest/e2e/runner"
	"github.com/gravitational/hrmtest/e2e/specs"
	"github.com/gravitational/hrmtest/lib/config"
	"github.com/gravitational/hrmtest/lib/debug"
	"github.com/gravitational/hrmtest/lib/defaults"
	"github.com/gravitational/hrmtest/lib/report"
	"github.com/gravitational/hrmtest/lib/xlog"

	"github.com/gravitational/configure/cstrings"
	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

func main() {
	if err := run(); err != nil {
		xlog.ConsoleLogger(os.Stderr, log.ErrorLevel).Error(trace.DebugReport(err))
		os.Exit(255)
	}
}

func run() error {
	args, extra := cstrings.SplitAt(os.Args, "--")

	var (
		app = kingpin.New("hrmtest", "Browser UI tests of the OrangeHRM login and employee workflows.")

		conf runConfig

		crun  = app.Command("run", "run scenarios one after another and write a report")
		clist = app.Command("list", "list scenarios")
	)
	app.Flag("debug", "dump goroutine stacks on interrupt").BoolVar(&conf.Debug)
	app.Flag("profile", "serve pprof endpoints on this address").StringVar(&conf.ProfileAddr)

	crun.Flag("config", "settings file").Default(defaults.ConfigFile).StringVar(&conf.ConfigFile)
	crun.Flag("browser", "browser to run: "+strings.Join(driver.Browsers, ", ")).Default(string(driver.Chrome)).EnumVar(&conf.Browser, driver.Browsers...)
	crun.Flag("headless", "run the browser without a window").SetValue(&conf.Headless)
	crun.Flag("engine", "automation backend: "+strings.Join(framework.Engines, ", ")).Default(string(framework.EngineWebDriver)).EnumVar(&conf.Engine, framework.Engines...)
	crun.Flag("remote-url", "WebDriver endpoint of the remote engine").StringVar(&conf.RemoteURL)
	crun.Flag("scenario", "scenario to run, may be repeated").StringsVar(&conf.Scenarios)

	cmd, err := app.Parse(args[1:])
	if err != nil {
		return trace.Wrap(err)
	}

	switch cmd {
	case clist.FullCommand():
		for _, scenario := range specs.Scenarios {
			fmt.Printf("%-22v %v\n", scenario.Name, scenario.Description)
		}
		return nil
	case crun.FullCommand():
		for _, name := range extra {
			if name != "--" {
				conf.Scenarios = append(conf.Scenarios, name)
			}
		}
		return runScenarios(conf)
	}
	return nil
}

func runScenarios(conf runConfig) error {
	if err := conf.checkAndSetDefaults(); err != nil {
		return trace.Wrap(err)
	}
	engine, err := framework.ParseEngine(conf.Engine)
	if err != nil {
		return trace.Wrap(err)
	}
	open, err := framework.NewOpener(engine)
	if err != nil {
		return trace.Wrap(err)
	}
	scenarios, err := specs.Lookup(conf.Scenarios...)
	if err != nil {
		return trace.Wrap(err)
	}
	provider, err := config.LoadOrEnv(conf.ConfigFile)
	if err != nil {
		return trace.Wrap(err)
	}
	settings, err := provider.Settings()
	if err != nil {
		return trace.Wrap(err)
	}

	logger, err := xlog.New(xlog.Config{
		Dir:     settings.Harness.LogDir,
		Level:   settings.Harness.LogLevel,
		Console: os.Stderr,
	})
	if err != nil {
		return trace.Wrap(err)
	}
	defer logger.Close()
	logger.Infof("Logging to %v.", logger.Path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if conf.Debug {
		go debug.DumpLoop(ctx, os.Stderr, logger.Component("debug"))
	}
	if conf.ProfileAddr != "" {
		debug.StartProfiling(conf.ProfileAddr, logger.Component("debug"))
	}

	r, err := runner.New(runner.Config{
		Options:     conf.Options(),
		Open:        open,
		Provider:    provider,
		Settings:    settings,
		FieldLogger: logger.Component("runner"),
		Labels:      map[string]string{"engine": string(engine)},
	})
	if err != nil {
		return trace.Wrap(err)
	}
	rep := r.Run(scenarios)
	path, err := rep.Write(settings.Harness.ReportDir, report.UniqueSuffix(rep.Started))
	if err != nil {
		return trace.Wrap(err)
	}
	logger.Infof("Report: %v.", path)

	if failed := rep.Count(report.Failed); failed != 0 {
		return trace.CompareFailed("%v of %v scenario(s) failed, see %v", failed, len(rep.Entries), path)
	}
	return nil
}
