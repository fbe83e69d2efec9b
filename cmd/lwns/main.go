// Copyright (c) 2024-2026, The LWNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

// lwns is a discrete-event LoRaWAN network simulator: one gateway, any
// number of end devices, driven from an interactive console.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/lwns-sim/lwns/cli"
	"github.com/lwns-sim/lwns/cli/runcli"
	"github.com/lwns-sim/lwns/dispatcher"
	"github.com/lwns-sim/lwns/logger"
	"github.com/lwns-sim/lwns/progctx"
	"github.com/lwns-sim/lwns/simulation"
)

type mainArgs struct {
	Speed       string
	LogLevel    string
	AutoGo      bool
	RadioModel  string
	AdrMarginDb float64
	Seed        int64
	Interval    int
	PayloadSize int
	KpiFile     string
	NoKpi       bool
}

var (
	args mainArgs
)

func parseArgs() {
	flag.StringVar(&args.Speed, "speed", "max", "set simulating speed: a number, or 'max'")
	flag.StringVar(&args.LogLevel, "log", "info", "set logging level: trace, debug, info, warn, error, off")
	flag.BoolVar(&args.AutoGo, "autogo", false, "run the simulation continuously, without issuing 'go' commands")
	flag.StringVar(&args.RadioModel, "radiomodel", simulation.DefaultRadioModelName, "set radio model: ideal, logshadow")
	flag.Float64Var(&args.AdrMarginDb, "margin", 10, "set the ADR installation margin in dB")
	flag.Int64Var(&args.Seed, "seed", 0, "set the random seed; 0 picks a time-based seed")
	flag.IntVar(&args.Interval, "interval", 60, "set the default uplink interval of new devices in seconds")
	flag.IntVar(&args.PayloadSize, "payload", 20, "set the default uplink payload size of new devices in bytes")
	flag.StringVar(&args.KpiFile, "kpi", simulation.DefaultKpiFileName, "set the KPI output file name")
	flag.BoolVar(&args.NoKpi, "no-kpi", false, "do not write a KPI file on exit")

	flag.Parse()
}

func parseSpeed() float64 {
	if strings.ToLower(args.Speed) == "max" {
		return dispatcher.MaxSimulateSpeed
	}
	speed, err := strconv.ParseFloat(args.Speed, 64)
	logger.FatalfIfError(err, "invalid speed: %s", args.Speed)
	return speed
}

func createSimulation(ctx *progctx.ProgCtx) *simulation.Simulation {
	simcfg := simulation.DefaultConfig()
	simcfg.Speed = parseSpeed()
	simcfg.RadioModelName = args.RadioModel
	simcfg.AdrMarginDb = args.AdrMarginDb
	simcfg.Seed = args.Seed
	simcfg.UplinkInterval = time.Duration(args.Interval) * time.Second
	simcfg.PayloadSize = args.PayloadSize
	simcfg.AutoGo = args.AutoGo
	simcfg.KpiFile = args.KpiFile
	if args.NoKpi {
		simcfg.KpiFile = ""
	}
	if flag.NArg() > 0 {
		simcfg.ScenarioFile = flag.Arg(0)
	}

	sim, err := simulation.NewSimulation(ctx, simcfg)
	logger.FatalIfError(err)
	return sim
}

func handleSignals(ctx *progctx.ProgCtx) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	signal.Ignore(syscall.SIGALRM)

	ctx.WaitAdd("handleSignals", 1)
	go func() {
		defer ctx.WaitDone("handleSignals")

		for {
			select {
			case sig := <-c:
				logger.Infof("signal received: %v", sig)
				ctx.Cancel(nil)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func autoGo(ctx *progctx.ProgCtx, sim *simulation.Simulation) {
	for {
		<-sim.Go(time.Second)
		if ctx.Err() != nil {
			return
		}
	}
}

func main() {
	parseArgs()

	lv, err := logger.ParseLevelString(args.LogLevel)
	logger.FatalIfError(err)
	logger.SetLevel(lv)

	ctx := progctx.New(context.Background())
	ctx.Defer(func() {
		_ = os.Stdin.Close()
	})
	handleSignals(ctx)

	sim := createSimulation(ctx)

	if sim.GetConfig().ScenarioFile != "" {
		sc, err := simulation.LoadScenario(sim.GetConfig().ScenarioFile)
		logger.FatalIfError(err)
		sim.PostAsync(false, func() {
			logger.FatalIfError(sim.ApplyScenario(sc))
		})
	}

	go sim.Run()
	if args.AutoGo {
		go autoGo(ctx, sim)
	}

	// run the console in the main goroutine.
	cli.Run(ctx, sim, runcli.DefaultCliOptions())

	ctx.Cancel(nil)
	ctx.Wait()
}
