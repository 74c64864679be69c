package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/nsw-daq/feconf"
	"github.com/spf13/cobra"
)

var githash = "githash not computed"
var gitdate = "git date not computed"
var buildDate = "build date not computed"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and quit",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("This is feconf version %s\n", feconf.Build.Version)
		fmt.Printf("Git commit hash: %s\n", githash)
		fmt.Printf("Build time: %s\n", buildDate)
		fmt.Printf("Built on go version %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	buildDate = strings.Replace(buildDate, ".", " ", -1) // workaround for Make problems
	feconf.Build.Date = buildDate
	feconf.Build.Githash = githash
	feconf.Build.Gitdate = gitdate
	feconf.Build.Summary = fmt.Sprintf("feconf version %s (git commit %s of %s)", feconf.Build.Version, githash, gitdate)
	if host, err := os.Hostname(); err == nil {
		feconf.Build.Host = host
	} else {
		feconf.Build.Host = "host not detected"
	}
	rootCmd.Version = feconf.Build.Version

	Execute()
}
