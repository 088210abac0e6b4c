package index

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp-forge/searchsync/internal/cmd/base"
	"github.com/hashicorp-forge/searchsync/pkg/indexer"
)

const defaultSearchSize = 20

type SearchCommand struct {
	*base.Command

	flagQuery   string
	flagFilters filterFlag
	flagSize    int

	// Overridden in tests.
	newProvider indexer.ProviderFactory
}

// filterFlag collects repeated -filter field=value options.
type filterFlag map[string]string

func (f *filterFlag) String() string {
	if f == nil || len(*f) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(*f))
	for k, v := range *f {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (f *filterFlag) Set(s string) error {
	field, value, ok := strings.Cut(s, "=")
	if !ok || field == "" {
		return fmt.Errorf("filter must be field=value, got %q", s)
	}
	if *f == nil {
		*f = make(filterFlag)
	}
	(*f)[field] = value
	return nil
}

func (c *SearchCommand) Synopsis() string {
	return "Query the search index"
}

func (c *SearchCommand) Help() string {
	return `Usage: searchsync index search [options]

  Prints the IDs of the records matching a query, one per line. Only
  providers that can read the index back (bleve) support this command.` + c.Flags().Help()
}

func (c *SearchCommand) Flags() *base.FlagSet {
	f := newFlagSet(c.Command, "index search")

	f.StringVar(&c.flagQuery, "query", "",
		"Text to match. Empty matches every record.")
	f.Var(&c.flagFilters, "filter",
		"Exact field filter as field=value. May be repeated.")
	f.IntVar(&c.flagSize, "size", defaultSearchSize,
		"Maximum number of results.")

	return f
}

func (c *SearchCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return base.ExitFailure
	}

	_, inspector, closeFn, code := loadInspector(c.Command, c.newProvider)
	if code != base.ExitSuccess {
		return code
	}
	defer closeFn()

	ctx, cancel := c.SignalContext()
	defer cancel()

	ids, err := inspector.Search(ctx, c.flagQuery, c.flagFilters, c.flagSize)
	if err != nil {
		c.UI.Error(fmt.Sprintf("failed to search index: %v", err))
		return base.ExitFailure
	}

	for _, id := range ids {
		c.UI.Output(id)
	}
	c.Log.Debug("search finished", "query", c.flagQuery, "hits", len(ids))
	return base.ExitSuccess
}
