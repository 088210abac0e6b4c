package base

import (
	"flag"
	"fmt"
	"sort"
	"strings"
)

// FlagSet wraps flag.FlagSet to render flag help for command Help output.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet creates a new FlagSet.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	return &FlagSet{FlagSet: f}
}

// Help returns the formatted flag list, or "" if there are no flags.
func (f *FlagSet) Help() string {
	var flags []*flag.Flag
	f.VisitAll(func(fl *flag.Flag) {
		flags = append(flags, fl)
	})
	if len(flags) == 0 {
		return ""
	}

	sort.Slice(flags, func(i, j int) bool {
		return flags[i].Name < flags[j].Name
	})

	var b strings.Builder
	b.WriteString("\n\nOptions:\n")
	for _, fl := range flags {
		name, usage := flag.UnquoteUsage(fl)
		if name != "" {
			fmt.Fprintf(&b, "\n  -%s=<%s>\n", fl.Name, name)
		} else {
			fmt.Fprintf(&b, "\n  -%s\n", fl.Name)
		}
		fmt.Fprintf(&b, "      %s\n", usage)
		if fl.DefValue != "" && fl.DefValue != "false" {
			fmt.Fprintf(&b, "      Default: %s\n", fl.DefValue)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
