// Command generate-config writes the defaulted configuration as YAML.
package main

import (
	"fmt"
	"os"

	"github.com/debemdeboas/postdeck/internal/config"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const header = "# postdeck configuration example\n# Copy this file to config.yaml and customize as needed.\n# S3 credentials are read from " +
	config.EnvS3AccessKey + " and " + config.EnvS3SecretKey + ".\n\n"

func render(cfg *config.Config) ([]byte, error) {
	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return append([]byte(header), yamlData...), nil
}

func main() {
	flags := pflag.NewFlagSet("generate-config", pflag.ExitOnError)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: generate-config [output file | -]")
		flags.PrintDefaults()
	}
	flags.Parse(os.Args[1:])

	output, err := render(config.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating YAML: %v\n", err)
		os.Exit(1)
	}

	outputFile := "config.example.yaml"
	if flags.NArg() > 0 {
		outputFile = flags.Arg(0)
	}

	if outputFile == "-" {
		os.Stdout.Write(output)
		return
	}

	if err := os.WriteFile(outputFile, output, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, config.ErrWriteConfigContentFmt+"\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated example config: %s\n", outputFile)
}
