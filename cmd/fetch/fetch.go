package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/seaward/artifact-fetch/api"
	"github.com/seaward/artifact-fetch/cmd/internal/cmdhelper"
	"github.com/seaward/artifact-fetch/internal/logging"
	"github.com/seaward/artifact-fetch/service/download"
)

func Run(ctx context.Context, args []string) {
	var (
		authenticated bool
		enableLogging bool
		outfile       string
		noJSON        bool
	)

	flagSet := pflag.NewFlagSet("fetch", pflag.ExitOnError)
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "Fetches artifacts and reports where they landed.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: artifact-fetch fetch [ARGS...] ARTIFACT...\n")
		fmt.Fprint(os.Stderr, flagSet.FlagUsages())
		examples := []string{
			"artifact-fetch fetch https://example.org/geoserver.war",
			"artifact-fetch fetch -c ~/.cache/artifacts jenkins://mybucket/myjob",
			"artifact-fetch fetch -a 's3prefix://mybucket/releases?pattern=^.*\\.whl$&sortmethod=version'",
		}
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		for _, example := range examples {
			fmt.Fprintf(os.Stderr, "  $ %s\n", example)
		}
		os.Exit(1)
	}

	flagSet.BoolVarP(&authenticated, "authenticated", "a", false, "Sign object-store requests with ambient credentials")
	flagSet.BoolVarP(&enableLogging, "enable-logging", "l", false, "Log progress to stderr at debug level")
	flagSet.StringVarP(&outfile, "outfile", "o", "", "Write the JSON result document to this file instead of stdout")
	flagSet.BoolVarP(&noJSON, "no-json", "j", false, "Suppress the JSON result document")
	globalConfig, err := cmdhelper.InjectGlobalFlagsAndConfigure(args, flagSet)
	if err != nil {
		cmdhelper.FatalFmt("%v", err)
	}

	artifacts := flagSet.Args()
	if len(artifacts) == 0 {
		flagSet.Usage()
	}

	level := logging.LevelFromString(globalConfig.LogLevel)
	if envLevel, ok := os.LookupEnv(api.LogLevelEnv); ok {
		level = logging.LevelFromString(envLevel)
	}
	if enableLogging {
		level = logging.LevelFromString("debug")
	}
	logger := logging.New(os.Stderr, level)

	cacheDir := cmdhelper.SubstituteHome(globalConfig.CacheDir)
	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			cmdhelper.FatalFmt("creating cache dir %s: %v", cacheDir, err)
		}
	}

	results := make(map[string]download.Result, len(artifacts))
	for _, artifact := range artifacts {
		result, err := download.Download(ctx, artifact, download.Options{
			Authenticated: authenticated,
			CacheDir:      cacheDir,
			Endpoint:      globalConfig.Endpoint,
			Region:        globalConfig.Region,
			Insecure:      globalConfig.InsecureEnable(),
			Logger:        logger,
		})
		if err != nil {
			// A failed fetch must not leave a misleading result document.
			if outfile != "" {
				os.Remove(outfile)
			}
			cmdhelper.FatalFmt("%v", err)
		}
		results[artifact] = result
	}

	if noJSON {
		return
	}
	document, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		cmdhelper.FatalFmt("encoding results: %v", err)
	}
	document = append(document, '\n')
	if outfile != "" {
		if err := os.WriteFile(outfile, document, 0o644); err != nil {
			cmdhelper.FatalFmt("writing results to %s: %v", outfile, err)
		}
		return
	}
	os.Stdout.Write(document)
}
