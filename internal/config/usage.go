package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/agbru/fibdrv/internal/ui"
)

// setCustomUsage configures the flag set with a colored usage function.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		t := ui.GetCurrentTheme()
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			t = ui.NoColorTheme
		}

		out := fs.Output()

		fmt.Fprintf(out, "\n%sfibdrv%s\n", t.Bold, t.Reset)
		fmt.Fprintf(out, "Exact Fibonacci numbers by fast doubling with NTT multiplication.\n\n")
		fmt.Fprintf(out, "%sUsage:%s\n  %s [flags]\n\n%sFlags:%s\n", t.Warning, t.Reset, fs.Name(), t.Warning, t.Reset)

		fs.VisitAll(func(f *flag.Flag) {
			name, usage := flag.UnquoteUsage(f)
			flagSig := fmt.Sprintf("-%s", f.Name)
			if len(name) > 0 {
				flagSig += " " + name
			}
			fmt.Fprintf(out, "  %s%-25s%s %s", t.Primary, flagSig, t.Reset, usage)
			if f.DefValue != "" && f.DefValue != "0" && f.DefValue != "false" {
				fmt.Fprintf(out, " %s(default %s)%s", t.Secondary, f.DefValue, t.Reset)
			}
			fmt.Fprintln(out)
		})
		fmt.Fprintf(out, "\n%sEnvironment:%s\n  Every flag can be set as %s<NAME>, e.g. %sN=1000 or %sGC_MODE=disabled.\n", t.Warning, t.Reset, EnvPrefix, EnvPrefix, EnvPrefix)
		fmt.Fprintf(out, "  %sCONFIG names a YAML file with the same keys (n, algo, timeout, ...).\n\n", EnvPrefix)
	}
}
