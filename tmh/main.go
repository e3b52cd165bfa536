// Command tmh displays the TRON merchant heatmap dashboard.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/heatmap/cmd"
	"github.com/etnz/heatmap/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "tmh")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	completion(commander).Complete("tmh")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion: the global
// flags and, for every subcommand, its own flags.
func completion(commander *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flags(flag.CommandLine),
	}
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: flags(fs)}
		if c.Name() == "topic" || c.Name() == "help" {
			sub.Args = predict.Set(topics(c.Name(), commander))
		}
		root.Sub[c.Name()] = sub
	})
	return root
}

// flags returns the predictors of a flag set.
func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch f.Name {
		case "csv":
			m[f.Name] = predict.Files("*.csv")
		case "o":
			m[f.Name] = predict.Files("*")
		case "format":
			m[f.Name] = predict.Set{"csv", "xlsx"}
		default:
			m[f.Name] = predict.Nothing
		}
	})
	return m
}

func topics(name string, commander *subcommands.Commander) []string {
	if name == "topic" {
		all, _ := docs.GetAllTopics()
		return append(all, "readme", "*")
	}
	var names []string
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		names = append(names, c.Name())
	})
	return names
}
