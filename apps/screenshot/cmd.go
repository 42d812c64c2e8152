package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
)

var (
	writeFileFunc = os.WriteFile // mockable
	mkdirAllFunc  = os.MkdirAll  // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf   core.ScreenshotConfig
	logger core.Logger
	launch func(conf core.ScreenshotConfig) (Browser, error)
	stderr io.Writer
}

type summary struct {
	attempted int
	saved     int
	failed    int
}

func (cli *commandLine) run(args []string) (summary, error) {
	var sum summary

	cmd := flag.NewFlagSet("screenshot", flag.ContinueOnError)
	if cli.stderr != nil {
		cmd.SetOutput(cli.stderr)
	}
	only := cmd.String("only", "", "Comma-separated route names to capture (default: all).")
	outDir := cmd.String("out", cli.conf.OutDir, "Directory the screenshots are written to.")
	baseURL := cmd.String("base", cli.conf.BaseURL, "Origin of the running web app.")
	if err := cmd.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return sum, errHelp
		}
		return sum, err
	}

	routes, err := selectRoutes(*only)
	if err != nil {
		return sum, err
	}
	if err = mkdirAllFunc(*outDir, 0o755); err != nil {
		return sum, errors.Wrap(err, "creating output dir")
	}

	conf := cli.conf
	conf.BaseURL = strings.TrimRight(*baseURL, "/")
	conf.OutDir = *outDir
	browser, err := cli.launch(conf)
	if err != nil {
		return sum, err
	}

	for _, vp := range viewports {
		for _, r := range routes {
			sum.attempted++
			url := conf.BaseURL + r.Path
			file := filepath.Join(conf.OutDir, fileName(r, vp))
			if err := capture(browser, url, file, vp); err != nil {
				sum.failed++
				cli.logger.Error(fmt.Sprintf("Failed to capture %s: %v", url, err), err)
				continue
			}
			sum.saved++
			cli.logger.Info("Saved " + file)
		}
	}

	if err = browser.Close(); err != nil {
		cli.logger.Warn(fmt.Sprintf("closing browser: %v", err))
	}
	cli.logger.Info(fmt.Sprintf("Done : attempted=%d saved=%d failed=%d", sum.attempted, sum.saved, sum.failed))
	return sum, nil
}

func capture(b Browser, url, file string, vp Viewport) error {
	png, err := b.Capture(url, vp)
	if err != nil {
		return err
	}
	return errors.Wrap(writeFileFunc(file, png, 0o644), "writing screenshot")
}

// selectRoutes returns the routes named in the comma-separated list, in capture order.
func selectRoutes(only string) ([]Route, error) {
	routes := allRoutes()
	if strings.TrimSpace(only) == "" {
		return routes, nil
	}

	wanted := make(map[string]bool)
	for _, name := range strings.Split(only, ",") {
		if name = strings.TrimSpace(name); name != "" {
			wanted[name] = true
		}
	}
	selected := make([]Route, 0, len(wanted))
	for _, r := range routes {
		if wanted[r.Name] {
			selected = append(selected, r)
			delete(wanted, r.Name)
		}
	}
	if len(wanted) > 0 {
		unknown := make([]string, 0, len(wanted))
		for name := range wanted {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown routes: %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}
