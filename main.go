package main

import (
	"log"

	"github.com/jwaldrip/odin/cli"
	"github.com/sirupsen/logrus"

	"github.com/mudesheng/lcbfind/internal/config"
	"github.com/mudesheng/lcbfind/internal/dotdump"
	"github.com/mudesheng/lcbfind/internal/finder"
	"github.com/mudesheng/lcbfind/internal/ioload"
	"github.com/mudesheng/lcbfind/internal/ioout"
	"github.com/mudesheng/lcbfind/internal/junction"
	"github.com/mudesheng/lcbfind/internal/progress"
)

var app = cli.New("1.0.0", "locally collinear block finder over a compacted de Bruijn junction graph", func(c cli.Command) {})

func init() {
	app.DefineStringFlag("p", "./out/lcb", "prefix of the output files")
	app.DefineIntFlag("K", 25, "kmer length, must be odd")
	app.DefineIntFlag("t", 1, "number of worker threads")

	find := app.DefineSubCommand("find", "find locally collinear blocks from a junction stream and genome FASTA", Find)
	config.AttachFindFlags(find)
	find.DefineStringFlag("junctions", "", "path to the binary junction stream (chr u32, id i32, pos u32)")
	find.DefineStringFlag("genome", "", "path to the genome FASTA file, one record per chromosome")
}

// Find is the find subcommand's entry point: load inputs, build the
// junction storage, run the parallel driver, and write the outputs.
func Find(c cli.Command) {
	opt, suc := config.CheckArgsFind(c)
	if !suc {
		log.Fatalf("[Find] check Arguments error, opt:%v\n", opt)
	}

	junctionsFn := c.Flag("junctions").String()
	genomeFn := c.Flag("genome").String()
	if junctionsFn == "" || genomeFn == "" {
		log.Fatalf("[Find] args 'junctions' and 'genome' must both be set\n")
	}

	records, err := ioload.LoadJunctions(junctionsFn)
	if err != nil {
		log.Fatalf("[Find] failed to load junction stream %s: %v\n", junctionsFn, err)
	}
	sequences, descriptions, err := ioload.LoadGenome(genomeFn)
	if err != nil {
		log.Fatalf("[Find] failed to load genome FASTA %s: %v\n", genomeFn, err)
	}

	storage, err := buildStorage(records, sequences, descriptions, opt)
	if err != nil {
		log.Fatalf("[Find] failed to build junction storage: %v\n", err)
	}

	findOpt := finder.Options{
		Threads:         opt.Global.NumCPU,
		MaxBranchSize:   int64(opt.MaxBranchSize),
		MaxFlankingSize: int64(opt.MaxFlankingSize),
		MinBlockSize:    int64(opt.MinBlockSize),
		LookingDepth:    opt.LookingDepth,
		SampleSize:      opt.SampleSize,
		SeedAll:         opt.SeedAll,
		Seed:            1,
	}

	seeds := finder.BuildSeeds(storage, findOpt)
	logger := logrus.New()
	reporter := progress.New(logger, int64(len(seeds)), 1000)

	finder.Run(storage, seeds, findOpt, reporter)

	if err := ioout.WriteCoordinates(storage, opt.Global.Prefix+".coords.txt"); err != nil {
		log.Fatalf("[Find] failed to write block coordinates: %v\n", err)
	}
	if err := ioout.WriteSequences(storage, opt.Global.Prefix+".blocks.fa"); err != nil {
		log.Fatalf("[Find] failed to write block sequences: %v\n", err)
	}
	if err := ioout.WriteCoverageReport(storage, opt.Global.Prefix+".coverage.txt"); err != nil {
		log.Fatalf("[Find] failed to write coverage report: %v\n", err)
	}
	if opt.Graph {
		if err := dotdump.WriteSynteny(storage, opt.Global.Prefix+".dot"); err != nil {
			log.Fatalf("[Find] failed to write synteny graph: %v\n", err)
		}
	}
}

func buildStorage(records []junction.JunctionRecord, sequences [][]byte, descriptions []string, opt config.FindOptions) (*junction.Storage, error) {
	return junction.Build(records, sequences, descriptions, opt.Global.Kmer, opt.Global.NumCPU)
}

func main() {
	app.Start()
}
