package main

import (
	"context"
	"os"

	"github.com/md-rashed-zaman/clinicadmin/libs/runtime"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := runtime.SignalContext(context.Background())
	defer stop()

	e := &env{}
	err := newRootCmd(e).ExecuteContext(ctx)
	e.close()
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:          "clinicadmin",
		Short:        "Clinic administration console",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (yaml, toml, json or .env)")
	flags.String("api-url", "", "Clinic API base URL (overrides CLINIC_API_URL)")
	flags.String("session-file", "", "Session file (overrides SESSION_FILE)")
	flags.StringP("output", "o", "table", "Output format: table or json")
	flags.BoolP("yes", "y", false, "Do not ask for confirmation")

	root.AddCommand(loginCmd(e))
	root.AddCommand(logoutCmd(e))
	root.AddCommand(whoamiCmd(e))
	root.AddCommand(statusCmd(e))
	root.AddCommand(dashboardCmd(e))
	root.AddCommand(feedbackCmd(e))
	root.AddCommand(departmentsCmd(e))
	root.AddCommand(doctorsCmd(e))
	root.AddCommand(testsCmd(e))
	root.AddCommand(credentialsCmd(e))
	return root
}
