package main

import (
	"flag"
	"log"
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/maxxonair/rDke"
)

// This code only reads the scenario, runs the propagation and writes the archive.

const defaultScenario = "~~unset~~"

var (
	scenario string
	verbose  bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "scenario TOML file")
	flag.BoolVar(&verbose, "verbose", false, "log the loaded configuration")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	conf, err := rdke.LoadConfig(scenario)
	if err != nil {
		log.Fatalf("%s: %s", scenario, err)
	}
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	if verbose {
		logger.Log("level", "info", "subsys", "conf", "t_start(s)", conf.TStart, "t_end(s)", conf.TEnd, "dt(s)", conf.Dt, "epoch", conf.StartState.Epoch, "archive", conf.Archive.Path, "atmosphere", conf.Atmosphere.Enabled, "model", conf.Atmosphere.Model)
	}

	env, err := rdke.NewEnvironmentFromConfig(conf)
	if err != nil {
		log.Fatalf("environment: %s", err)
	}
	archive, err := rdke.CreateCSVArchive(conf.Archive)
	if err != nil {
		log.Fatalf("archive: %s", err)
	}
	dke, err := rdke.NewDKE(conf, env, archive, logger)
	if err != nil {
		archive.Close()
		log.Fatalf("driver: %s", err)
	}
	_, runErr := dke.Run()
	if err := archive.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if conf.MetricsPath != "" {
		if err := dke.Metrics.WriteTextfile(conf.MetricsPath); err != nil {
			logger.Log("level", "warning", "subsys", "metrics", "path", conf.MetricsPath, "err", err)
		}
	}
	if runErr != nil {
		log.Fatalf("run: %s", runErr)
	}
	logger.Log("level", "notice", "subsys", "archive", "file", archive.Name(), "rows", archive.Rows())
}
