package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli"

	"github.com/cookiesweep/cookiesweep"
)

var (
	fieldsFlag    string
	domainFlag    string
	browserFlag   string
	profileFlag   string
	whitelistPath string
	applyFlag     bool
	deleteAllFlag bool
)

var sourceFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "browser, b",
		Usage:       "comma separated browsers to scan (default: all)",
		Destination: &browserFlag,
	},
	cli.StringFlag{
		Name:        "profile, p",
		Usage:       "profile name, profile directory or explicit store path",
		Destination: &profileFlag,
	},
}

var listFlags = append([]cli.Flag{
	cli.StringFlag{
		Name:        "fields, f",
		Usage:       "comma separated fields to show, or All",
		Value:       "Host,Name,Value,Expires",
		Destination: &fieldsFlag,
	},
	cli.StringFlag{
		Name:        "domain, d",
		Usage:       "only show cookies for these domains (suffix match)",
		Destination: &domainFlag,
	},
}, sourceFlags...)

var cleanFlags = append([]cli.Flag{
	cli.StringFlag{
		Name:        "whitelist, w",
		Usage:       "whitelist file: one domain per line, # comments",
		Destination: &whitelistPath,
	},
	cli.BoolFlag{
		Name:        "apply",
		Usage:       "apply deletions (default is a dry run)",
		Destination: &applyFlag,
	},
	cli.BoolFlag{
		Name:        "delete-all",
		Usage:       "explicitly allow cleaning without a whitelist (deletes every cookie)",
		Destination: &deleteAllFlag,
	},
}, sourceFlags...)

func main() {
	app := cli.App{
		Name:     "cookiesweep",
		HelpName: "cookiesweep",
		Usage:    "list and clean browser cookies across profiles",
		Version:  "v0.2.0",
		Commands: []cli.Command{
			{
				Name:    "cookies",
				Aliases: []string{"ls"},
				Usage:   "list cookies from all discovered stores",
				Action:  listCookies,
				Flags:   listFlags,
			},
			{
				Name:   "clean",
				Usage:  "delete cookies not covered by the whitelist (dry run by default)",
				Action: clean,
				Flags:  cleanFlags,
			},
		},
		HideVersion: true,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "cookiesweep: %s\n", err.Error())
		os.Exit(1)
	}
}

func listCookies(_ *cli.Context) error {
	fields, err := cookiesweep.ParseFields(fieldsFlag)
	if err != nil {
		return err
	}

	res, err := cookiesweep.ListCookies(context.Background(), cookiesweep.ListOptions{
		Locate: locateOptions(),
		Filter: cookiesweep.Filter{
			Domains:  splitComma(domainFlag),
			Browsers: browserList(browserFlag),
			Profiles: splitComma(profileFlag),
		},
	})
	if err != nil {
		return err
	}
	printWarnings(res.Warnings)

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	header := []string{"BROWSER", "PROFILE"}
	for _, f := range fields {
		header = append(header, strings.ToUpper(string(f)))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, c := range res.Cookies {
		row := []string{string(c.Source.Browser), c.Source.Profile}
		for _, f := range fields {
			row = append(row, c.FieldString(f))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()

	return failuresToExitErr(res.Failures)
}

func clean(_ *cli.Context) error {
	var whitelist cookiesweep.Whitelist
	switch {
	case whitelistPath != "":
		wl, err := cookiesweep.LoadWhitelist(whitelistPath)
		if err != nil {
			return err
		}
		whitelist = wl
	case deleteAllFlag:
		// explicit empty whitelist: every cookie is a deletion candidate
	default:
		return cli.NewExitError("refusing to clean without a whitelist; pass --whitelist FILE or --delete-all", 2)
	}

	report, err := cookiesweep.Clean(context.Background(), cookiesweep.CleanOptions{
		Whitelist: whitelist,
		Apply:     applyFlag,
		Locate:    locateOptions(),
	})
	if err != nil {
		return err
	}
	printWarnings(report.Warnings)

	if applyFlag {
		fmt.Printf("deleted %d, skipped %d (whitelisted)\n", len(report.Deleted), len(report.Skipped))
	} else {
		fmt.Printf("dry run: would delete %d, skip %d (whitelisted); pass --apply to delete\n",
			len(report.WouldDelete), len(report.Skipped))
		for _, c := range report.WouldDelete {
			fmt.Printf("  %s\t%s\t%s (%s %s)\n", c.Host, c.Name, c.Path, c.Source.Browser, c.Source.Profile)
		}
	}

	return failuresToExitErr(report.Failures)
}

func locateOptions() cookiesweep.LocateOptions {
	opts := cookiesweep.LocateOptions{Browsers: browserList(browserFlag)}
	if profileFlag != "" {
		opts.Profiles = make(map[cookiesweep.Browser]string)
		browsers := opts.Browsers
		if len(browsers) == 0 {
			browsers = cookiesweep.DefaultBrowsers()
		}
		for _, b := range browsers {
			opts.Profiles[b] = profileFlag
		}
	}
	return opts
}

func browserList(s string) []cookiesweep.Browser {
	var out []cookiesweep.Browser
	for _, part := range splitComma(s) {
		out = append(out, cookiesweep.Browser(strings.ToLower(part)))
	}
	return out
}

func splitComma(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, w)
	}
}

func failuresToExitErr(failures []cookiesweep.StoreFailure) error {
	if len(failures) == 0 {
		return nil
	}
	var sb strings.Builder
	for i, f := range failures {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("failed store: " + f.Error())
	}
	return cli.NewExitError(sb.String(), 1)
}
