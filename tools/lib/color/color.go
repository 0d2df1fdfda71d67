// Copyright 2018 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package color wraps strings in ANSI escape sequences when the output
// destination can render them.
package color

import (
	"fmt"

	"go.lapackjni.dev/bindgen/tools/lib/isatty"
)

// ColorCode is an ANSI foreground color code.
type ColorCode int

const (
	BlackFg ColorCode = iota + 30
	RedFg
	GreenFg
	YellowFg
	BlueFg
	MagentaFg
	CyanFg
	WhiteFg
	DefaultFg ColorCode = 39
)

const (
	escape = "\033["
	clear  = "\033[0m"
)

// Colorfn formats its arguments like fmt.Sprintf and wraps the result in a color.
type Colorfn func(format string, a ...interface{}) string

// Color produces colored strings.
type Color interface {
	Black(format string, a ...interface{}) string
	Red(format string, a ...interface{}) string
	Green(format string, a ...interface{}) string
	Yellow(format string, a ...interface{}) string
	Blue(format string, a ...interface{}) string
	Magenta(format string, a ...interface{}) string
	Cyan(format string, a ...interface{}) string
	White(format string, a ...interface{}) string
	DefaultColor(format string, a ...interface{}) string
	WithColor(code ColorCode, format string, a ...interface{}) string
	Enabled() bool
}

// EnableColor selects when colors are emitted. It implements flag.Value.
type EnableColor int

const (
	ColorNever EnableColor = iota
	ColorAuto
	ColorAlways
)

var enableColorNames = map[EnableColor]string{
	ColorNever:  "never",
	ColorAuto:   "auto",
	ColorAlways: "always",
}

func (ec *EnableColor) String() string {
	return enableColorNames[*ec]
}

func (ec *EnableColor) Set(s string) error {
	for value, name := range enableColorNames {
		if name == s {
			*ec = value
			return nil
		}
	}
	return fmt.Errorf("%s is not a valid color value", s)
}

type color struct {
	enabled bool
}

// NewColor returns a Color that honors the given setting. ColorAuto enables
// color only when stdout is a terminal.
func NewColor(ec EnableColor) Color {
	enabled := false
	switch ec {
	case ColorAlways:
		enabled = true
	case ColorAuto:
		enabled = isatty.IsTerminal()
	}
	return &color{enabled: enabled}
}

func (c *color) Enabled() bool {
	return c.enabled
}

func (c *color) WithColor(code ColorCode, format string, a ...interface{}) string {
	s := fmt.Sprintf(format, a...)
	if !c.enabled || code == DefaultFg {
		return s
	}
	return fmt.Sprintf("%v%vm%v%v", escape, code, s, clear)
}

func (c *color) Black(format string, a ...interface{}) string {
	return c.WithColor(BlackFg, format, a...)
}

func (c *color) Red(format string, a ...interface{}) string {
	return c.WithColor(RedFg, format, a...)
}

func (c *color) Green(format string, a ...interface{}) string {
	return c.WithColor(GreenFg, format, a...)
}

func (c *color) Yellow(format string, a ...interface{}) string {
	return c.WithColor(YellowFg, format, a...)
}

func (c *color) Blue(format string, a ...interface{}) string {
	return c.WithColor(BlueFg, format, a...)
}

func (c *color) Magenta(format string, a ...interface{}) string {
	return c.WithColor(MagentaFg, format, a...)
}

func (c *color) Cyan(format string, a ...interface{}) string {
	return c.WithColor(CyanFg, format, a...)
}

func (c *color) White(format string, a ...interface{}) string {
	return c.WithColor(WhiteFg, format, a...)
}

func (c *color) DefaultColor(format string, a ...interface{}) string {
	return c.WithColor(DefaultFg, format, a...)
}
