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

// Package cli implements the LWNS console. It parses and executes the
// interactive commands against a running simulation.
package cli

import (
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lwns-sim/lwns/dispatcher"
	"github.com/lwns-sim/lwns/logger"
	"github.com/lwns-sim/lwns/progctx"
	"github.com/lwns-sim/lwns/radiomodel"
	"github.com/lwns-sim/lwns/simulation"
	"github.com/lwns-sim/lwns/types"
)

const (
	Prompt = "> "
)

var errCommandInterrupted = errors.New("command interrupted")

// CommandContext carries the state of one command execution: the parsed
// command, its output writer and the first error raised.
type CommandContext struct {
	*Command
	rt     *CmdRunner
	err    error
	output io.Writer
}

func (cc *CommandContext) outputStr(msg string) {
	_, _ = fmt.Fprint(cc.output, msg)
}

func (cc *CommandContext) outputf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cc.output, format, args...)
}

func (cc *CommandContext) errorf(format string, args ...interface{}) {
	cc.error(errors.Errorf(format, args...))
}

func (cc *CommandContext) error(err error) {
	if err != nil {
		if cc.err != nil { // if previous error, print it now and keep the last.
			cc.outputf("Error: %s\n", cc.err)
		}
		cc.err = err
	}
}

// Err returns the last error that occurred during command execution.
func (cc *CommandContext) Err() error {
	return cc.err
}

func (cc *CommandContext) outputItemsAsYaml(items interface{}) {
	var itemsYaml yaml.Node

	err := itemsYaml.Encode(items)
	logger.PanicIfError(err)

	for _, content := range itemsYaml.Content {
		content.Style = yaml.FlowStyle
	}

	data, err := yaml.Marshal(&itemsYaml)
	logger.PanicIfError(err)

	_, err = cc.output.Write(data)
	logger.PanicIfError(err)
}

// CmdRunner executes parsed console commands against the simulation. All
// simulation access goes through postAsyncWait so that state is only touched
// on the dispatcher goroutine.
type CmdRunner struct {
	sim  *simulation.Simulation
	ctx  *progctx.ProgCtx
	help Help
}

func NewCmdRunner(ctx *progctx.ProgCtx, sim *simulation.Simulation) *CmdRunner {
	cr := &CmdRunner{
		ctx:  ctx,
		sim:  sim,
		help: newHelp(),
	}
	return cr
}

// HandleCommand parses and runs one command line; part of the runcli
// CliHandler interface.
func (rt *CmdRunner) HandleCommand(cmdline string, output io.Writer) error {
	if rt.ctx.Err() == nil {
		cmd := Command{}

		if err := ParseBytes([]byte(cmdline), &cmd); err != nil {
			if _, err := fmt.Fprintf(output, "Error: %v\n", err); err != nil {
				return err
			}
		} else {
			rt.execute(&cmd, output)
		}
	}
	return rt.ctx.Err()
}

// GetPrompt returns the console prompt; part of the runcli CliHandler
// interface.
func (rt *CmdRunner) GetPrompt() string {
	return Prompt
}

func (rt *CmdRunner) execute(cmd *Command, output io.Writer) {
	cc := &CommandContext{
		Command: cmd,
		rt:      rt,
		output:  output,
	}

	defer func() {
		if cc.Err() != nil {
			cc.outputf("Error: %v\n", cc.Err())
		} else {
			cc.outputf("Done\n")
		}
	}()

	defer func() {
		rerr := recover()

		if rerr != nil {
			if err, ok := rerr.(error); ok {
				cc.err = errors.Wrapf(err, "panic: %v", err)
			} else {
				cc.err = errors.Errorf("panic: %v", rerr)
			}
		}
	}()

	if cmd.Add != nil {
		rt.executeAddNode(cc, cmd.Add)
	} else if cmd.Counters != nil {
		rt.executeCounters(cc, cmd.Counters)
	} else if cmd.Del != nil {
		rt.executeDelNode(cc, cmd.Del)
	} else if cmd.Exit != nil {
		rt.executeExit(cc, cmd.Exit)
	} else if cmd.Go != nil {
		rt.executeGo(cc, cmd.Go)
	} else if cmd.Help != nil {
		rt.executeHelp(cc, cmd.Help)
	} else if cmd.Kpi != nil {
		rt.executeKpi(cc, cmd.Kpi)
	} else if cmd.LogLevel != nil {
		rt.executeLogLevel(cc, cmd.LogLevel)
	} else if cmd.Margin != nil {
		rt.executeMargin(cc, cmd.Margin)
	} else if cmd.Move != nil {
		rt.executeMoveNode(cc, cmd.Move)
	} else if cmd.Nodes != nil {
		rt.executeLsNodes(cc, cmd.Nodes)
	} else if cmd.RadioModel != nil {
		rt.executeRadioModel(cc, cmd.RadioModel)
	} else if cmd.Speed != nil {
		rt.executeSpeed(cc, cmd.Speed)
	} else if cmd.Stats != nil {
		rt.executeStats(cc, cmd.Stats)
	} else if cmd.Time != nil {
		rt.executeTime(cc, cmd.Time)
	} else {
		logger.Panicf("unimplemented command: %#v", cmd)
	}
}

// postAsyncWait runs f on the dispatcher goroutine and blocks until it
// completed, or until the program context ends.
func (rt *CmdRunner) postAsyncWait(cc *CommandContext, f func(sim *simulation.Simulation)) {
	done := make(chan struct{})
	rt.sim.PostAsync(false, func() {
		defer close(done) // even if f() panics, 'done' must close.
		f(rt.sim)
	})
	select {
	case <-done:
	case <-rt.ctx.Done():
		cc.error(errCommandInterrupted)
	}
}

func (rt *CmdRunner) executeAddNode(cc *CommandContext, cmd *AddCmd) {
	logger.Debugf("add: %#v", *cmd)

	var x, y float64
	if cmd.X != nil {
		x = *cmd.X
	}
	if cmd.Y != nil {
		y = *cmd.Y
	}
	nodeid := types.InvalidNodeId
	if cmd.Id != nil {
		nodeid = types.NodeId(cmd.Id.Val)
	}

	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		n, err := sim.AddNode(nodeid, x, y)
		if err != nil {
			cc.error(err)
			return
		}
		if cmd.Interval != nil {
			n.SetUplinkInterval(time.Duration(cmd.Interval.Val) * time.Second)
		}
		if cmd.Payload != nil {
			n.SetPayloadSize(cmd.Payload.Val)
		}
		cc.outputf("%d\n", n.Id())
	})
}

func (rt *CmdRunner) executeDelNode(cc *CommandContext, cmd *DelCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		for _, sel := range cmd.Nodes {
			err := sim.DeleteNode(types.NodeId(sel.Id))
			if err != nil {
				cc.errorf("node %d, %+v", sel.Id, err)
			}
		}
	})
}

func (rt *CmdRunner) executeExit(cc *CommandContext, cmd *ExitCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		sim.Stop()
	})
	rt.ctx.Cancel(nil)
}

func (rt *CmdRunner) executeGo(cc *CommandContext, cmd *GoCmd) {
	// determine the duration of the simulation period.
	timeDurToGo, err := time.ParseDuration(cmd.Time)
	if cmd.Ever == nil && err != nil {
		timeDurToGo, err = time.ParseDuration(cmd.Time + "s") // try parsing as seconds
		if err != nil {
			cc.errorf("could not parse time duration: %s", cmd.Time)
			return
		}
	}

	var done <-chan struct{}
	if cmd.Ever == nil {
		rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
			if cmd.Speed != nil {
				sim.Dispatcher().SetSpeed(*cmd.Speed)
			}
			done = sim.Go(timeDurToGo)
		})
		if cc.Err() == nil {
			<-done // block for the simulation period.
		}
	} else {
		for { // run forever but stop when the program context ends.
			rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
				if cmd.Speed != nil {
					sim.Dispatcher().SetSpeed(*cmd.Speed)
				}
				done = sim.Go(time.Hour)
			})
			if cc.Err() != nil {
				break
			}
			<-done

			if rt.ctx.Err() != nil {
				break
			}
		}
	}
}

func (rt *CmdRunner) executeHelp(cc *CommandContext, cmd *HelpCmd) {
	if len(cmd.HelpTopic) > 0 {
		cc.outputStr(rt.help.outputCommandHelp(cmd.HelpTopic))
	} else {
		cc.outputStr(rt.help.outputGeneralHelp())
	}
}

func (rt *CmdRunner) executeKpi(cc *CommandContext, cmd *KpiCmd) {
	if cmd.Save != nil {
		fn := cmd.Name
		rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
			if fn == "" {
				fn = sim.GetConfig().KpiFile
			}
			if fn == "" {
				fn = simulation.DefaultKpiFileName
			}
			cc.error(sim.SaveKpiFile(fn))
		})
		if cc.Err() == nil {
			cc.outputf("%s\n", fn)
		}
	} else {
		var kpi *simulation.Kpi
		rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
			kpi = sim.BuildKpi()
		})
		if kpi != nil {
			cc.outputItemsAsYaml(kpi)
		}
	}
}

func (rt *CmdRunner) executeLogLevel(cc *CommandContext, cmd *LogLevelCmd) {
	if cmd.Level == "" {
		cc.outputf("%v\n", logger.GetLevelString(logger.GetLevel()))
	} else {
		lv, err := logger.ParseLevelString(cmd.Level)
		if err != nil {
			cc.error(err)
			return
		}
		logger.SetLevel(lv)
	}
}

func (rt *CmdRunner) executeMargin(cc *CommandContext, cmd *MarginCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		if cmd.Margin == nil {
			cc.outputf("%v\n", sim.Gateway().AdrMargin())
		} else {
			sim.Gateway().SetAdrMargin(*cmd.Margin)
			sim.GetConfig().AdrMarginDb = *cmd.Margin
		}
	})
}

func (rt *CmdRunner) executeMoveNode(cc *CommandContext, cmd *MoveCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		cc.error(sim.MoveNodeTo(types.NodeId(cmd.Target.Id), cmd.X, cmd.Y))
	})
}

func (rt *CmdRunner) executeLsNodes(cc *CommandContext, cmd *NodesCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		for _, nodeid := range sim.GetNodeIds() {
			n := sim.GetNode(nodeid)
			par := n.Parameters()
			cnt := n.Counters()
			cc.outputf("id=%d\tx=%.0f\ty=%.0f\tdr=%d\tsf=%d\ttxpower=%.0f\tsent=%d\n",
				nodeid, n.Location().X, n.Location().Y,
				par.DataRate, par.SpreadingFactor, par.TxPowerDbm, cnt.UplinksSent)
		}
	})
}

func (rt *CmdRunner) executeRadioModel(cc *CommandContext, cmd *RadioModelCmd) {
	var name string
	if len(cmd.Model) == 0 {
		rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
			name = sim.RadioModel().Name()
		})
		cc.outputf("%v\n", name)
	} else {
		name = cmd.Model
		var model radiomodel.RadioModel
		rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
			model = radiomodel.NewRadioModel(name)
			if model != nil {
				sim.SetRadioModel(model)
			}
		})
		if model != nil {
			cc.outputf("%v\n", model.Name())
		} else {
			cc.errorf("radiomodel '%v' is not defined", name)
		}
	}
}

func (rt *CmdRunner) executeSpeed(cc *CommandContext, cmd *SpeedCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		if cmd.Speed == nil && cmd.Max == nil {
			cc.outputf("%v\n", sim.Dispatcher().GetSpeed())
		} else if cmd.Max != nil {
			sim.Dispatcher().SetSpeed(dispatcher.MaxSimulateSpeed)
		} else {
			sim.Dispatcher().SetSpeed(*cmd.Speed)
		}
	})
}

func (rt *CmdRunner) executeStats(cc *CommandContext, cmd *StatsCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		stats := sim.Gateway().Stats(sim.Dispatcher().CurTime)
		cc.outputItemsAsYaml(stats)
		for _, nodeid := range sim.GetNodeIds() {
			cc.outputf("node %d: ", nodeid)
			cc.outputItemsAsYaml(sim.GetNode(nodeid).Counters())
		}
	})
}

func (rt *CmdRunner) executeTime(cc *CommandContext, cmd *TimeCmd) {
	var dispTime uint64
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		dispTime = sim.Dispatcher().CurTime
	})
	cc.outputf("%d\n", dispTime)
}

func (rt *CmdRunner) executeCounters(cc *CommandContext, cmd *CountersCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		d := sim.Dispatcher()
		countersVal := reflect.ValueOf(d.Counters)
		countersTyp := reflect.TypeOf(d.Counters)
		for i := 0; i < countersVal.NumField(); i++ {
			fname := countersTyp.Field(i).Name
			fval := countersVal.Field(i)
			cc.outputf("%-40s %v\n", fname, fval.Uint())
		}
	})
}
