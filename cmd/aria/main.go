package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/aria-hq/aria-protein-relay/internal/domain"
	"github.com/aria-hq/aria-protein-relay/pkg/client"
)

const usage = `usage: aria [flags] <command> <arg>

commands:
  fetch <pdb-id>   download a structure file through the relay
  search <gene>    list reviewed proteins for a gene symbol
  open <gene>      search, then load the first result that has a 3D structure
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("aria", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	relayURL := flags.String("relay", envOr("ARIA_RELAY_URL", client.DefaultBaseURL), "relay base URL")
	output := flags.StringP("output", "o", "", "write the structure file here instead of stdout (fetch/open)")
	timeout := flags.Duration("timeout", 0, "per-request timeout, 0 for none")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w\n\n%s", err, usage)
	}

	rest := flags.Args()
	if len(rest) != 2 {
		return errors.New(usage)
	}
	cmd, arg := rest[0], rest[1]

	c := client.New(*relayURL, *timeout)
	switch cmd {
	case "fetch":
		data, err := c.FetchStructure(ctx, arg)
		if err != nil {
			return err
		}
		return writeStructure(stdout, *output, data)
	case "search":
		result, err := c.SearchGene(ctx, arg)
		if err != nil {
			return err
		}
		printResults(stdout, result)
		return nil
	case "open":
		return open(ctx, c, arg, *output, stdout)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
}

func open(ctx context.Context, c *client.Client, gene, output string, stdout io.Writer) error {
	result, err := c.SearchGene(ctx, gene)
	if err != nil {
		return err
	}
	if len(result.Results) == 0 {
		return errors.New("no proteins found")
	}

	sess := client.NewSession(c)
	for _, rec := range result.Results {
		loaded, err := sess.LoadRecord(ctx, rec)
		if errors.Is(err, client.ErrNoStructure) {
			continue
		}
		if err != nil {
			return err
		}
		if output == "" {
			fmt.Fprintf(stdout, "PDB ID: %s\nGene: %s\nStructure Source: RCSB Protein Data Bank\n", loaded.PDBID, loaded.Gene)
			return nil
		}
		if err := writeStructure(stdout, output, loaded.Data); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "loaded %s (%s) into %s\n", loaded.PDBID, loaded.Gene, output)
		return nil
	}
	return client.ErrNoStructure
}

func printResults(w io.Writer, result *domain.SearchResult) {
	if result == nil || len(result.Results) == 0 {
		fmt.Fprintln(w, "No proteins found")
		return
	}
	for _, rec := range result.Results {
		fmt.Fprintln(w, rec.Name())
		fmt.Fprintf(w, "  Gene: %s\n", rec.GeneList())
		fmt.Fprintf(w, "  %s · %s\n", rec.OrganismName(), rec.PrimaryAccession)
		if refs := rec.StructureRefs(); len(refs) > 0 {
			fmt.Fprintf(w, "  %d PDB structure(s) available\n", len(refs))
		}
	}
}

func writeStructure(stdout io.Writer, path, data string) error {
	if path == "" {
		_, err := io.WriteString(stdout, data)
		return err
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write structure file: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
