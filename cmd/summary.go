package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/heatmap/renderer"
	"github.com/google/subcommands"
)

// sectionCmd prints one or more sections of the dashboard.
type sectionCmd struct {
	name     string
	synopsis string
	usage    string
	sections []string
	raw      bool
}

func summary() *sectionCmd {
	return &sectionCmd{
		name:     "summary",
		synopsis: "display the headline metrics, the regions and the country rankings",
		usage: `tmh summary [-raw]

  Displays the key metrics of the merchant dataset: merchants identified,
  total volume, emerging markets share, the regional distribution and the
  country rankings.
`,
		sections: []string{"headline", "regions", "rankings", "warnings"},
	}
}

func regions() *sectionCmd {
	return &sectionCmd{
		name:     "regions",
		synopsis: "display the merchant distribution by region",
		usage: `tmh regions [-raw]

  Displays, for each region, the number of merchants, their share of the
  dataset and the estimate for the whole network.
`,
		sections: []string{"regions"},
	}
}

func countries() *sectionCmd {
	return &sectionCmd{
		name:     "countries",
		synopsis: "display the estimated merchant count of every country",
		usage: `tmh countries [-raw]

  Displays every country of the adoption table with its adoption rate, global
  rank and estimated merchant count. Merchants of a region are attributed to
  its countries in proportion to their adoption rate.
`,
		sections: []string{"countries", "rankings"},
	}
}

func hours() *sectionCmd {
	return &sectionCmd{
		name:     "hours",
		synopsis: "display the peak activity hours by region",
		usage: `tmh hours [-raw]

  Displays, for each region, the share of merchants peaking at each UTC hour.
`,
		sections: []string{"hours"},
	}
}

func payments() *sectionCmd {
	return &sectionCmd{
		name:     "payments",
		synopsis: "display the distribution of average payment sizes",
		usage: `tmh payments [-raw]

  Displays the number of merchants by average payment size, in $5 bins from
  $0 to $100. Larger payments are counted in the last bin.
`,
		sections: []string{"payments"},
	}
}

func activity() *sectionCmd {
	return &sectionCmd{
		name:     "activity",
		synopsis: "display the merchant activity levels",
		usage: `tmh activity [-raw]

  Displays the number of merchants by activity level, from their transaction
  count percentile: Low, Medium, High and Very High.
`,
		sections: []string{"activity"},
	}
}

func (c *sectionCmd) Name() string     { return c.name }
func (c *sectionCmd) Synopsis() string { return c.synopsis }
func (c *sectionCmd) Usage() string    { return c.usage }

func (c *sectionCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Print the markdown source instead of rendering it")
}

func (c *sectionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger := newLogger()
	defer logger.Sync()

	d, err := loadDashboard(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dashboard: %s\n", describe(err))
		return subcommands.ExitFailure
	}

	var b strings.Builder
	for _, s := range c.sections {
		b.WriteString(renderer.RenderSection(s, d))
		b.WriteString("\n")
	}
	if c.raw {
		fmt.Print(b.String())
		return subcommands.ExitSuccess
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
