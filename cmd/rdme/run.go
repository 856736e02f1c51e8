package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/spatialmodel/rdme"
)

var runFlags = pflag.NewFlagSet("run", pflag.ExitOnError)

var (
	modelPath   string
	iterations  int
	withMetrics bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation described by a model file to completion",
	RunE:  runRun,
}

func init() {
	runFlags.StringVar(&modelPath, "model", "", "path to the model YAML file")
	runFlags.IntVar(&iterations, "max-iterations", 1_000_000, "give up after this many iterations even if t_max hasn't been reached")
	runFlags.BoolVar(&withMetrics, "metrics", false, "record Prometheus metrics for the run in an in-process registry (the values are not printed)")
	runCmd.Flags().AddFlagSet(runFlags)
	Cfg.BindPFlags(runFlags)
}

func runRun(cmd *cobra.Command, args []string) error {
	model, err := loadModelFile(Cfg.GetString("model"))
	if err != nil {
		return err
	}
	cfg, err := model.toConfig()
	if err != nil {
		return err
	}

	var sess rdme.Session
	sess.Log = log

	if cfg.Grid != nil {
		err = sess.InitializeGrid(cfg)
	} else {
		err = sess.InitializeGraph(cfg)
	}
	if err != nil {
		return fmt.Errorf("initializing session: %w", err)
	}

	if withMetrics {
		sess.AttachMetrics(prometheus.NewRegistry())
	}
	if len(model.Report) > 0 {
		nMeshes := len(model.State[model.Species[0]])
		if cfg.Grid != nil {
			nMeshes = cfg.Grid.W * cfg.Grid.H * cfg.Grid.D
		} else if cfg.Graph != nil {
			nMeshes = cfg.Graph.NNodes
		}
		reporter, err := rdme.NewReporter(model.Species, nMeshes, model.Report)
		if err != nil {
			return fmt.Errorf("compiling report expressions: %w", err)
		}
		sess.AttachReporter(reporter)
	}

	sess.IterateN(Cfg.GetInt("max-iterations"))

	log.WithFields(logrus.Fields{
		"t":        sess.GetT(),
		"progress": sess.GetProgress(),
		"samples":  sess.GetNSamples(),
	}).Info("run complete")

	return nil
}
