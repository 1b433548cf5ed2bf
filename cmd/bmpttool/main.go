// Command bmpttool loads a newline-delimited key,value file of hex
// felts, replays it through a Tree's Set, commits, and prints the root
// hash and (with -key) a Merkle proof. It is a thin consumer of the
// bmpt/bmptstore/bmpthash/bmptconfig packages, not part of the core
// itself (spec.md §1 excludes CLI from the core's responsibility),
// mirroring the teacher's own split between its trie library and its
// cmd/gprobe, cmd/probekey wrapper binaries.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/urfave/cli.v1"

	"github.com/feltwork/bmpt/bmpt"
	"github.com/feltwork/bmpt/bmptconfig"
	"github.com/feltwork/bmpt/felt"
)

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file (defaults to an in-memory tree with the Keccak hasher)",
	}
	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "hex felt to print a Merkle proof for, after committing",
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose",
		Usage: "dump every Set as it is applied",
	}

	loadCommand = cli.Command{
		Name:      "load",
		Usage:     "replay a key,value file and print the committed root",
		ArgsUsage: "<file>",
		Action:    runLoad,
		Flags:     []cli.Flag{configFileFlag, keyFlag, verboseFlag},
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "bmpttool"
	app.Usage = "binary Merkle-Patricia tree scratchpad"
	app.Commands = []cli.Command{loadCommand}

	if err := app.Run(os.Args); err != nil {
		log.Error("bmpttool: fatal", "err", err)
		os.Exit(1)
	}
}

func runLoad(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("usage: bmpttool load [options] <file>", 1)
	}

	cfg := bmptconfig.Default
	if path := ctx.String(configFileFlag.Name); path != "" {
		loaded, err := bmptconfig.Load(path)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("load config: %v", err), 1)
		}
		cfg = loaded
	}

	tree, closer, err := cfg.Build()
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("build tree: %v", err), 1)
	}
	defer closer()

	n, err := loadFile(ctx.Args().First(), tree, ctx.Bool(verboseFlag.Name))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	log.Info("bmpttool: applied entries", "count", n)

	root, persisted, err := tree.Commit()
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("commit: %v", err), 1)
	}
	fmt.Printf("root: %s\n", root)
	log.Info("bmpttool: committed", "persisted", persisted)

	if keyHex := ctx.String(keyFlag.Name); keyHex != "" {
		key, err := parseFelt(keyHex)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("parse -key: %v", err), 1)
		}
		proof := tree.GetProof(key)
		fmt.Printf("membership: %v\n", proof.Membership)
		spew.Dump(proof.Nodes)
	}
	return nil
}

func loadFile(path string, tree *bmpt.Tree, verbose bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			return count, fmt.Errorf("malformed line %q: expected key,value", line)
		}
		key, err := parseFelt(strings.TrimSpace(parts[0]))
		if err != nil {
			return count, fmt.Errorf("parse key in %q: %w", line, err)
		}
		value, err := parseFelt(strings.TrimSpace(parts[1]))
		if err != nil {
			return count, fmt.Errorf("parse value in %q: %w", line, err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "set %s = %s\n", key, value)
		}
		tree.Set(key, value)
		count++
	}
	return count, scanner.Err()
}

func parseFelt(hex string) (felt.Felt, error) {
	hex = strings.TrimPrefix(hex, "0x")
	if len(hex) == 0 {
		return felt.Zero, fmt.Errorf("empty hex literal")
	}
	if len(hex) > 64 {
		return felt.Zero, fmt.Errorf("hex literal %q too wide for a felt", hex)
	}
	var buf [32]byte
	padded := strings.Repeat("0", 64-len(hex)) + hex
	for i := 0; i < 32; i++ {
		var b byte
		if _, err := fmt.Sscanf(padded[i*2:i*2+2], "%02x", &b); err != nil {
			return felt.Zero, fmt.Errorf("invalid hex byte in %q: %w", hex, err)
		}
		buf[i] = b
	}
	return felt.FromBytes32(buf), nil
}
