/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andreas-jonsson/virtualwin/config"
	"github.com/andreas-jonsson/virtualwin/engine"
	"github.com/andreas-jonsson/virtualwin/server"
	"github.com/andreas-jonsson/virtualwin/version"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

var (
	escapeQuits,
	persistent,
	autoPortrait,
	portraitNone,
	portraitLeft,
	portraitRight,
	portraitDown,
	ver bool
)

var (
	xres, yres int
	configFile string
)

func init() {
	flag.BoolVar(&ver, "v", false, "Print version information")
	flag.StringVar(&configFile, "config", "", "Read configuration from file")

	flag.BoolVar(&escapeQuits, "e", false, "Quit when escape is pressed")
	flag.BoolVar(&persistent, "p", false, "Keep running when the last client disconnects")
	flag.BoolVar(&autoPortrait, "A", false, "Rotate the screen to fit the client window")
	flag.BoolVar(&portraitNone, "N", false, "No screen rotation")
	flag.BoolVar(&portraitLeft, "L", false, "Rotate the screen left")
	flag.BoolVar(&portraitRight, "R", false, "Rotate the screen right")
	flag.BoolVar(&portraitDown, "D", false, "Rotate the screen upside down")
	flag.IntVar(&xres, "x", 0, "Horizontal resolution")
	flag.IntVar(&yres, "y", 0, "Vertical resolution")
}

func main() {
	flag.Parse()

	if ver {
		fmt.Printf("%s (%s)\n", version.Current.FullString(), version.Hash)
		return
	}

	cfg, err := loadConfig(afero.NewOsFs())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.SetLevel(cfg.Level())

	printLogo()
	runHost(func() {
		if err := run(cfg); err != nil {
			log.WithError(err).Error("could not start server")
			os.Exit(1)
		}
	})
}

// loadConfig merges the configuration file with the flags given on the
// command line. Flags win.
func loadConfig(fs afero.Fs) (config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(fs, configFile); err != nil {
			return cfg, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "e":
			cfg.EscapeQuits = escapeQuits
		case "p":
			cfg.Persistent = persistent
		case "A":
			cfg.AutoPortrait = autoPortrait
		case "N":
			cfg.Portrait = engine.PortraitNone.String()
		case "L":
			cfg.Portrait = engine.PortraitLeft.String()
		case "R":
			cfg.Portrait = engine.PortraitRight.String()
		case "D":
			cfg.Portrait = engine.PortraitDown.String()
		case "x":
			cfg.XRes = xres
		case "y":
			cfg.YRes = yres
		}
	})
	return cfg, cfg.Validate()
}

func run(cfg config.Config) error {
	st, err := newStack(cfg)
	if err != nil {
		return err
	}

	screenOpts := []engine.ScreenOption{engine.WithMode(engine.Mode{XRes: cfg.XRes, YRes: cfg.YRes})}
	if cfg.UniformPalette {
		screenOpts = append(screenOpts, engine.WithUniformPalette())
	}

	opts := []server.Config{
		server.WithScreen(st.screen, screenOpts...),
		server.WithKeyboard(st.keyboard),
		server.WithMouse(st.mouse),
		server.WithWaiter(st.waiter),
		server.WithPersistent(cfg.Persistent),
		server.WithEscapeQuits(cfg.EscapeQuits),
		server.WithPortrait(cfg.PortraitMode()),
		server.WithAutoPortrait(cfg.AutoPortrait),
		server.WithMaxSessions(cfg.MaxSessions),
	}
	if st.keyboard2 != nil {
		opts = append(opts, server.WithSecondKeyboard(st.keyboard2))
	}
	if cfg.ThreadSafe {
		opts = append(opts, server.WithThreadSafe())
	}

	var srv *server.Server
	if cfg.MultiSession() {
		tr, err := listen(cfg.Socket, func(rep server.Replier, id int, req []byte) error {
			return srv.HandleRequest(rep, id, req)
		})
		if err != nil {
			return err
		}
		opts = append(opts, server.WithTransport(tr))
	}

	if srv, err = server.New(opts...); err != nil {
		return err
	}
	st.quit = srv.Terminate
	handleSignals(srv, cfg)

	if cfg.MultiSession() {
		if err := srv.Initialize(); err != nil {
			return err
		}
		log.WithField("socket", cfg.Socket).Info("accepting clients")
		for {
			srv.Select(server.BlockForever)
		}
	}

	if err := srv.Open(); err != nil {
		return errors.Wrap(err, "could not open session")
	}
	for {
		ev := srv.GetNextEvent(server.BlockForever)
		if ev.Type == server.EventError {
			return errors.New("session closed")
		}
		log.WithFields(log.Fields{"type": ev.Type, "key": ev.Key, "x": ev.X, "y": ev.Y}).Debug("event")
	}
}

func handleSignals(srv *server.Server, cfg config.Config) {
	signal.Ignore(syscall.SIGPIPE, syscall.SIGHUP)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		srv.Terminate()
	}()

	if cfg.ThreadSafe {
		handleCapture(srv)
	}
}

func printLogo() {
	fmt.Print(logo)
	fmt.Println("v" + version.Current.String())
	fmt.Println(" ───────═════ " + version.Copyright + " ══════───────\n")
}

var logo = `
██╗   ██╗██╗██████╗ ████████╗██╗   ██╗ █████╗ ██╗    ██╗    ██╗██╗███╗   ██╗
██║   ██║██║██╔══██╗╚══██╔══╝██║   ██║██╔══██╗██║    ██║    ██║██║████╗  ██║
██║   ██║██║██████╔╝   ██║   ██║   ██║███████║██║    ██║ █╗ ██║██║██╔██╗ ██║
╚██╗ ██╔╝██║██╔══██╗   ██║   ██║   ██║██╔══██║██║    ██║███╗██║██║██║╚██╗██║
 ╚████╔╝ ██║██║  ██║   ██║   ╚██████╔╝██║  ██║██████╗╚███╔███╔╝██║██║ ╚████║
  ╚═══╝  ╚═╝╚═╝  ╚═╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝╚═════╝ ╚══╝╚══╝ ╚═╝╚═╝  ╚═══╝`
