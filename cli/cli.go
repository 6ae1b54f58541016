package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"weather/history"
	"weather/manager"
	"weather/server"
)

func New() (*cobra.Command, error) {
	var configPath string

	cmd := &cobra.Command{
		Use:          "weather city",
		Args:         cobra.MinimumNArgs(1),
		Short:        "CLI application for current weather, UV index and a 5 day forecast",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(configPath, true)
			if err != nil {
				return err
			}
			defer rt.close()

			report, err := rt.weather.Get(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			printReport(cmd, report)
			printRecent(cmd, rt.recent.Cities())

			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to a yaml or toml config file")

	cmd.AddCommand(&cobra.Command{
		Use:   "history",
		Args:  cobra.NoArgs,
		Short: "Show recently looked up cities",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(configPath, false)
			if err != nil {
				return err
			}
			defer rt.close()

			printRecent(cmd, rt.recent.Cities())

			return nil
		},
	})

	var addr string
	serve := &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Serve lookups and recent cities as JSON over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(configPath, true)
			if err != nil {
				return err
			}
			defer rt.close()

			if addr == "" {
				addr = rt.config.Server.Addr
			}

			return server.New(rt.weather, rt.recent).ListenAndServe(cmd.Context(), addr)
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address (defaults to server.addr from config)")
	cmd.AddCommand(serve)

	return cmd, nil
}

func printReport(cmd *cobra.Command, report manager.Report) {
	current := report.Current

	cmd.Printf("PROVIDER\t %s\n", report.Provider)
	cmd.Printf("LOCATION\t %s, %s\n", current.City, current.Country)
	cmd.Printf("LOCAL TIME\t %s\n", current.LocalTime().Format("Mon, Jan 2 15:04"))
	cmd.Printf("CONDITIONS\t %s\n", current.Description)
	cmd.Printf("TEMP\t\t %d ℃\n", int(math.Round(current.Temperature)))
	cmd.Printf("HUMIDITY\t %d %%\n", current.Humidity)
	cmd.Printf("WIND\t\t %g m/sec\n", current.WindSpeed)

	if report.UVErr != nil {
		cmd.Printf("UV INDEX\t unavailable: %s\n", report.UVErr)
	} else {
		cmd.Printf("UV INDEX\t %g (%s)\n", report.UV.Value, report.UV.Level())
	}

	cmd.Printf("\n")
	if report.ForecastErr != nil {
		cmd.Printf("FORECAST\t unavailable: %s\n", report.ForecastErr)
		return
	}

	cmd.Printf("DATE\t\t")
	for _, day := range report.Days {
		cmd.Printf("%-12s", day.DateLabel())
	}
	cmd.Printf("\nTEMP\t\t")
	for _, day := range report.Days {
		if !day.Available {
			cmd.Printf("%-12s", "no data")
			continue
		}
		cmd.Printf("%-12s", fmt.Sprintf("%d / %d", day.RoundedMin(), day.RoundedMax()))
	}
	cmd.Printf("\nHUMIDITY\t")
	for _, day := range report.Days {
		if !day.Available {
			cmd.Printf("%-12s", "-")
			continue
		}
		cmd.Printf("%-12d", day.RoundedHumidity())
	}
	cmd.Printf("\nICON\t\t")
	for _, day := range report.Days {
		if !day.Available {
			cmd.Printf("%-12s", "-")
			continue
		}
		cmd.Printf("%-12s", day.Icon)
	}
	cmd.Printf("\n")
}

func printRecent(cmd *cobra.Command, cities []history.City) {
	cmd.Printf("\nRECENT\n")
	for _, button := range history.Render(cities) {
		cmd.Printf("  %s\n", button.Label)
	}
}
