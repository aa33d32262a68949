// Package flagx picks subsets of command-line flags out of os.Args so each
// configuration layer can parse only what it owns.
package flagx

import (
	"flag"
	"io"
	"strconv"
	"strings"
)

// Names of the flags that point at a JSON config file.
const (
	ConfigShort = "c"
	ConfigLong  = "config"
)

// flagName returns the name of arg when it is written as -name, --name or
// either form with "=value". ok is false for anything that is not a flag.
func flagName(arg string) (name string, inline bool, ok bool) {
	if !strings.HasPrefix(arg, "-") || isNumber(arg) {
		return "", false, false
	}
	name = strings.TrimLeft(arg, "-")
	if name == "" {
		return "", false, false
	}
	if i := strings.IndexByte(name, '='); i >= 0 {
		return name[:i], true, true
	}
	return name, false, true
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// FilterArgs keeps the arguments of the named flags, in order, and drops
// everything else. Names are given without dashes and match both -name and
// --name. A separate value is taken from the next argument unless that one is
// itself a flag; negative numbers count as values.
func FilterArgs(args []string, names ...string) []string {
	allowed := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowed[n] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		name, inline, ok := flagName(args[i])
		if !ok {
			continue
		}
		if _, keep := allowed[name]; !keep {
			continue
		}
		filtered = append(filtered, args[i])
		if inline || i+1 >= len(args) {
			continue
		}
		if _, _, next := flagName(args[i+1]); !next {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

// ConfigPath returns the JSON config file named by -c or -config in args, the
// last one winning. It returns "" when neither flag is set.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, ConfigLong, "", "path to config file")
	fs.StringVar(&path, ConfigShort, "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, ConfigShort, ConfigLong))

	return path
}
