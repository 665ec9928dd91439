// Package config wires the odin/cli application and validates its flags,
// following the teacher's CheckGlobalArgs/checkArgsCDBG pattern: global
// flags live on the root command, subcommand flags are type-asserted and
// fatal-logged on a bad value (ga.go, constructdbg.go).
package config

import (
	"log"

	"github.com/jwaldrip/odin/cli"
)

// GlobalOptions holds the flags shared by every subcommand.
type GlobalOptions struct {
	Prefix string
	Kmer   int
	NumCPU int
}

// FindOptions holds the find subcommand's flags (spec.md §6).
type FindOptions struct {
	Global GlobalOptions

	MaxBranchSize   int
	MaxFlankingSize int
	MinBlockSize    int
	LookingDepth    int
	SampleSize      int
	Graph           bool
	SeedAll         bool
}

// CheckGlobalArgs validates the root command's flags, following
// CheckGlobalArgs in the teacher's utils.go.
func CheckGlobalArgs(c cli.Command) (opt GlobalOptions, succ bool) {
	opt.Prefix = c.Flag("p").String()
	if opt.Prefix == "" {
		log.Fatalf("[CheckGlobalArgs] args 'p' not set\n")
	}

	var ok bool
	opt.Kmer, ok = c.Flag("K").Get().(int)
	if !ok {
		log.Fatalf("[CheckGlobalArgs] args 'K' : %v set error\n", c.Flag("K").String())
	}
	if opt.Kmer <= 0 || opt.Kmer%2 == 0 {
		log.Fatalf("[CheckGlobalArgs] args 'K':%d must be a positive odd integer\n", opt.Kmer)
	}

	opt.NumCPU, ok = c.Flag("t").Get().(int)
	if !ok || opt.NumCPU < 1 {
		log.Fatalf("[CheckGlobalArgs] args 't':%v must be a positive integer\n", c.Flag("t").String())
	}

	succ = true
	return
}

// CheckArgsFind validates the find subcommand's flags.
func CheckArgsFind(c cli.Command) (opt FindOptions, succ bool) {
	gOpt, suc := CheckGlobalArgs(c.Parent())
	if !suc {
		log.Fatalf("[checkArgsFind] check global Arguments error, opt:%v\n", gOpt)
	}
	opt.Global = gOpt

	opt.MaxBranchSize = c.Flag("maxBranchSize").Get().(int)
	if opt.MaxBranchSize <= 0 {
		log.Fatalf("[checkArgsFind] args 'maxBranchSize':%d must be positive\n", opt.MaxBranchSize)
	}
	opt.MaxFlankingSize = c.Flag("maxFlankingSize").Get().(int)
	if opt.MaxFlankingSize < 0 {
		log.Fatalf("[checkArgsFind] args 'maxFlankingSize':%d must not be negative\n", opt.MaxFlankingSize)
	}
	opt.MinBlockSize = c.Flag("minBlockSize").Get().(int)
	if opt.MinBlockSize <= 2*opt.MaxFlankingSize {
		log.Fatalf("[checkArgsFind] args 'minBlockSize':%d must exceed 2*maxFlankingSize:%d\n", opt.MinBlockSize, 2*opt.MaxFlankingSize)
	}
	opt.LookingDepth = c.Flag("lookingDepth").Get().(int)
	if opt.LookingDepth <= 0 {
		log.Fatalf("[checkArgsFind] args 'lookingDepth':%d must be positive\n", opt.LookingDepth)
	}
	opt.SampleSize = c.Flag("sampleSize").Get().(int)
	opt.Graph = c.Flag("graph").Get().(bool)
	opt.SeedAll = c.Flag("seedAll").Get().(bool)

	succ = true
	return
}

// AttachFindFlags defines the find subcommand's flags on an already
// created cli.Command, mirroring how ga.go defines each subcommand's
// flags in the block right after DefineSubCommand.
func AttachFindFlags(find *cli.SubCommand) {
	find.DefineIntFlag("maxBranchSize", 125, "bubble/gap tolerance along extension")
	find.DefineIntFlag("maxFlankingSize", 50, "allowed excess of flank distance beyond the good part of an instance")
	find.DefineIntFlag("minBlockSize", 300, "smallest length for a good instance")
	find.DefineIntFlag("lookingDepth", 8, "forward/backward voting horizon, in vertices")
	find.DefineIntFlag("sampleSize", 0, "accepted but not used: the vote-count extender runs for every value")
	find.DefineBoolFlag("graph", false, "dump a debug synteny .dot graph alongside the blocks")
	find.DefineBoolFlag("seedAll", false, "seed from every vertex instead of only bubble-detected sources")
}
