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

package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseBytes(t *testing.T) {
	var cmd Command
	err := ParseBytes([]byte("wrongcmd"), &cmd)
	assert.NotNil(t, err)

	assert.Nil(t, ParseBytes([]byte("add"), &cmd))
	assert.NotNil(t, cmd.Add)
	assert.Nil(t, ParseBytes([]byte("add x 100 y 200"), &cmd))
	assert.True(t, *cmd.Add.X == 100 && *cmd.Add.Y == 200)
	assert.Nil(t, ParseBytes([]byte("add id 5"), &cmd))
	assert.Equal(t, 5, cmd.Add.Id.Val)
	assert.Nil(t, ParseBytes([]byte("add x 1 y 2 id 3 interval 300 payload 24"), &cmd))
	assert.Equal(t, 300, cmd.Add.Interval.Val)
	assert.Equal(t, 24, cmd.Add.Payload.Val)
	assert.Nil(t, ParseBytes([]byte("add payload 24 itv 300 id 3 y 2 x 1"), &cmd))

	assert.True(t, ParseBytes([]byte("counters"), &cmd) == nil && cmd.Counters != nil)

	assert.True(t, ParseBytes([]byte("del 1"), &cmd) == nil && cmd.Del != nil)
	assert.True(t, ParseBytes([]byte("del 1 2 3"), &cmd) == nil && cmd.Del != nil)
	assert.Equal(t, 3, len(cmd.Del.Nodes))
	assert.True(t, ParseBytes([]byte("del"), &cmd) != nil)

	assert.True(t, ParseBytes([]byte("exit"), &cmd) == nil && cmd.Exit != nil)

	assert.Nil(t, ParseBytes([]byte("go 1"), &cmd))
	assert.NotNil(t, cmd.Go)
	assert.Nil(t, ParseBytes([]byte("go 1.1"), &cmd))
	assert.NotNil(t, cmd.Go)
	assert.Nil(t, ParseBytes([]byte("go 64us"), &cmd))
	assert.NotNil(t, cmd.Go)
	parsedDuration, _ := time.ParseDuration("64us")
	assert.Equal(t, 64*time.Microsecond, parsedDuration)
	assert.Nil(t, ParseBytes([]byte("go 5h"), &cmd))
	assert.NotNil(t, cmd.Go)
	assert.Nil(t, ParseBytes([]byte("go ever"), &cmd))
	assert.NotNil(t, cmd.Go.Ever)
	assert.Nil(t, ParseBytes([]byte("go 100 speed 0.5"), &cmd))
	assert.Equal(t, 0.5, *cmd.Go.Speed)
	assert.Nil(t, ParseBytes([]byte("go 100 speed 2"), &cmd))
	assert.NotNil(t, cmd.Go)

	assert.True(t, ParseBytes([]byte("help"), &cmd) == nil && cmd.Help != nil)
	assert.True(t, ParseBytes([]byte("help add"), &cmd) == nil && cmd.Help.HelpTopic == "add")

	assert.True(t, ParseBytes([]byte("kpi"), &cmd) == nil && cmd.Kpi != nil)
	assert.True(t, ParseBytes([]byte("kpi save"), &cmd) == nil && cmd.Kpi.Save != nil)
	assert.Nil(t, ParseBytes([]byte("kpi save \"run1_kpi.json\""), &cmd))
	assert.Equal(t, "run1_kpi.json", cmd.Kpi.Name)

	assert.True(t, ParseBytes([]byte("log"), &cmd) == nil && cmd.LogLevel != nil)
	assert.True(t, ParseBytes([]byte("log debug"), &cmd) == nil && cmd.LogLevel != nil)
	assert.True(t, ParseBytes([]byte("log info"), &cmd) == nil && cmd.LogLevel != nil)
	assert.True(t, ParseBytes([]byte("log warn"), &cmd) == nil && cmd.LogLevel != nil)
	assert.True(t, ParseBytes([]byte("log error"), &cmd) == nil && cmd.LogLevel != nil)
	assert.True(t, ParseBytes([]byte("log fatal"), &cmd) != nil) // not supported.

	assert.True(t, ParseBytes([]byte("margin"), &cmd) == nil && cmd.Margin != nil)
	assert.Nil(t, ParseBytes([]byte("margin 15"), &cmd))
	assert.Equal(t, 15.0, *cmd.Margin.Margin)

	assert.True(t, ParseBytes([]byte("move 1 200 300"), &cmd) == nil && cmd.Move != nil)
	assert.Equal(t, 1, cmd.Move.Target.Id)
	assert.Equal(t, 200.0, cmd.Move.X)
	assert.Equal(t, 300.0, cmd.Move.Y)

	assert.True(t, ParseBytes([]byte("nodes"), &cmd) == nil && cmd.Nodes != nil)

	assert.True(t, ParseBytes([]byte("radiomodel"), &cmd) == nil && cmd.RadioModel != nil)
	assert.Nil(t, ParseBytes([]byte("radiomodel logshadow"), &cmd))
	assert.Equal(t, "logshadow", cmd.RadioModel.Model)
	assert.Nil(t, ParseBytes([]byte("radiomodel i"), &cmd))
	assert.Equal(t, "i", cmd.RadioModel.Model)

	assert.True(t, ParseBytes([]byte("speed"), &cmd) == nil && cmd.Speed != nil)
	assert.Nil(t, ParseBytes([]byte("speed 1.5"), &cmd))
	assert.Equal(t, 1.5, *cmd.Speed.Speed)
	assert.True(t, ParseBytes([]byte("speed max"), &cmd) == nil && cmd.Speed.Max != nil)
	assert.True(t, ParseBytes([]byte("speed inf"), &cmd) == nil && cmd.Speed.Max != nil)

	assert.True(t, ParseBytes([]byte("stats"), &cmd) == nil && cmd.Stats != nil)

	assert.True(t, ParseBytes([]byte("time"), &cmd) == nil && cmd.Time != nil)
}

func TestHelpCoversAllCommands(t *testing.T) {
	h := newHelp()
	for _, c := range []string{
		"add", "counters", "del", "exit", "go", "help", "kpi", "log",
		"margin", "move", "nodes", "radiomodel", "speed", "stats", "time",
	} {
		_, ok := h.commands[c]
		assert.True(t, ok, "help text missing for command %s", c)
		assert.NotEmpty(t, h.commandsShort[c], "short help missing for command %s", c)
	}
}
