package cmd

import "strings"

const ConfigFlag = "config"

// ConfigPathFromArgs returns the --config (-c) value from raw process args so
// the config file can be loaded before the command tree exists.
func ConfigPathFromArgs(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := strings.TrimSpace(args[i])
		if arg == "--" {
			break
		}
		for _, flag := range []string{"--" + ConfigFlag, "-c"} {
			if arg == flag && i+1 < len(args) {
				return strings.TrimSpace(args[i+1])
			}
			if value, ok := strings.CutPrefix(arg, flag+"="); ok {
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}
