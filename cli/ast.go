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
	"strconv"

	"github.com/alecthomas/participle"
)

// noinspection GoStructTag
type Command struct {
	Add        *AddCmd        `  @@` //nolint
	Counters   *CountersCmd   `| @@` //nolint
	Del        *DelCmd        `| @@` //nolint
	Exit       *ExitCmd       `| @@` //nolint
	Go         *GoCmd         `| @@` //nolint
	Help       *HelpCmd       `| @@` //nolint
	Kpi        *KpiCmd        `| @@` //nolint
	LogLevel   *LogLevelCmd   `| @@` //nolint
	Margin     *MarginCmd     `| @@` //nolint
	Move       *MoveCmd       `| @@` //nolint
	Nodes      *NodesCmd      `| @@` //nolint
	RadioModel *RadioModelCmd `| @@` //nolint
	Speed      *SpeedCmd      `| @@` //nolint
	Stats      *StatsCmd      `| @@` //nolint
	Time       *TimeCmd       `| @@` //nolint
}

// noinspection GoStructTag
type NodeSelector struct {
	Id int `@Int` //nolint
}

func (ns *NodeSelector) String() string {
	return strconv.Itoa(ns.Id)
}

// noinspection GoStructTag
type AddCmd struct {
	Cmd      struct{}      `"add"`                    //nolint
	X        *float64      `( "x" (@Int|@Float) `     //nolint
	Y        *float64      `| "y" (@Int|@Float) `     //nolint
	Id       *AddNodeId    `| @@`                     //nolint
	Interval *IntervalFlag `| @@`                     //nolint
	Payload  *PayloadFlag  `| @@ )*`                  //nolint
}

// noinspection GoStructTag
type AddNodeId struct {
	Val int `"id" @Int` //nolint
}

// noinspection GoStructTag
type IntervalFlag struct {
	Val int `("interval"|"itv") @Int` //nolint
}

// noinspection GoStructTag
type PayloadFlag struct {
	Val int `("payload"|"ps") @Int` //nolint
}

// noinspection GoStructTag
type CountersCmd struct {
	Cmd struct{} `"counters"` //nolint
}

// noinspection GoStructTag
type DelCmd struct {
	Cmd   struct{}       `"del"`   //nolint
	Nodes []NodeSelector `( @@ )+` //nolint
}

// noinspection GoStructTag
type ExitCmd struct {
	Cmd struct{} `"exit"` //nolint
}

// noinspection GoStructTag
type GoCmd struct {
	Cmd   struct{}  `"go"`                                     //nolint
	Time  string    `( @((Int|Float)["h"|"us"|"m"|"ms"|"s"]) ` //nolint
	Ever  *EverFlag `| @@ )`                                   //nolint
	Speed *float64  `[ "speed" (@Int|@Float) ]`                //nolint
}

// noinspection GoStructTag
type EverFlag struct {
	Dummy struct{} `"ever"` //nolint
}

// noinspection GoStructTag
type HelpCmd struct {
	Cmd       struct{} `"help"`       //nolint
	HelpTopic string   `[ (@Ident) ]` //nolint
}

// noinspection GoStructTag
type KpiCmd struct {
	Cmd  struct{}  `"kpi"`       //nolint
	Save *SaveFlag `( @@ )?`     //nolint
	Name string    `[ @String ]` //nolint
}

// noinspection GoStructTag
type SaveFlag struct {
	Dummy struct{} `"save"` //nolint
}

type LogLevelCmd struct {
	Cmd   struct{} `"log"`                                                                 //nolint
	Level string   `[@( "trace"|"debug"|"info"|"warn"|"error"|"off"|"T"|"D"|"I"|"W"|"E" )]` //nolint
}

// noinspection GoStructTag
type MarginCmd struct {
	Cmd    struct{} `"margin"`          //nolint
	Margin *float64 `[ (@Int|@Float) ]` //nolint
}

// noinspection GoStructTag
type MoveCmd struct {
	Cmd    struct{}     `"move"`        //nolint
	Target NodeSelector `@@`            //nolint
	X      float64      `(@Int|@Float)` //nolint
	Y      float64      `(@Int|@Float)` //nolint
}

// noinspection GoStructTag
type NodesCmd struct {
	Cmd struct{} `"nodes"` //nolint
}

// noinspection GoStructTag
type RadioModelCmd struct {
	Cmd   struct{} `"radiomodel"` //nolint
	Model string   `[ (@Ident) ]` //nolint
}

// noinspection GoStructTag
type SpeedCmd struct {
	Cmd   struct{}      `"speed"`               //nolint
	Max   *MaxSpeedFlag `( @@`                  //nolint
	Speed *float64      `| [ (@Int|@Float) ] )` //nolint
}

// noinspection GoStructTag
type MaxSpeedFlag struct {
	Dummy struct{} `( "max" | "inf" )` //nolint
}

// noinspection GoStructTag
type StatsCmd struct {
	Cmd struct{} `"stats"` //nolint
}

// noinspection GoStructTag
type TimeCmd struct {
	Cmd struct{} `"time"` //nolint
}

var (
	commandParser = participle.MustBuild(&Command{})
)

func ParseBytes(b []byte, cmd *Command) error {
	err := commandParser.ParseBytes(b, cmd)
	return err
}
